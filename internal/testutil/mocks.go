// Package testutil provides mock implementations of the interfaces defined
// in pkg/formatter and its subpackages, plus small filesystem helpers for
// tests.
package testutil

import (
	"time"

	"github.com/dj95/kdl-fmt/pkg/formatter"
	"github.com/dj95/kdl-fmt/pkg/kdl"
	"github.com/stretchr/testify/mock"
)

// MockDocumentParser provides a mock implementation of formatter.DocumentParser.
// Configure expectations with .On("ParseAs", content, version).Return(doc, err).
type MockDocumentParser struct {
	mock.Mock
}

// ParseAs mocks the ParseAs method.
func (m *MockDocumentParser) ParseAs(content string, v kdl.Version) (formatter.Document, error) {
	args := m.Called(content, v)
	doc, _ := args.Get(0).(formatter.Document) // nil when the test returns an error
	return doc, args.Error(1)
}

// MockDocument provides a mock implementation of formatter.Document.
type MockDocument struct {
	mock.Mock
}

// Autoformat mocks the Autoformat method.
func (m *MockDocument) Autoformat(cfg kdl.FormatConfig) {
	m.Called(cfg)
}

// EnsureVersion mocks the EnsureVersion method.
func (m *MockDocument) EnsureVersion(v kdl.Version) {
	m.Called(v)
}

// String mocks the String method.
func (m *MockDocument) String() string {
	args := m.Called()
	return args.String(0)
}

// MockEncodingHandler provides a mock implementation of the encoding.EncodingHandler interface.
type MockEncodingHandler struct {
	mock.Mock
}

// DetectAndDecode mocks the DetectAndDecode method.
func (m *MockEncodingHandler) DetectAndDecode(content []byte) (utf8Content []byte, detectedEncoding string, certainty bool, err error) {
	args := m.Called(content)
	utf8Content, _ = args.Get(0).([]byte)
	detectedEncoding = args.String(1)
	certainty = args.Bool(2)
	err = args.Error(3)
	return
}

// IsBinary mocks the IsBinary method.
func (m *MockEncodingHandler) IsBinary(content []byte) bool {
	args := m.Called(content)
	return args.Bool(0)
}

// MockHooks provides a mock implementation of formatter.Hooks.
type MockHooks struct {
	mock.Mock
}

// OnStageUpdate mocks the OnStageUpdate method.
func (m *MockHooks) OnStageUpdate(stage formatter.Stage, status formatter.Status, duration time.Duration) error {
	args := m.Called(stage, status, duration)
	return args.Error(0)
}

// OnRunComplete mocks the OnRunComplete method.
func (m *MockHooks) OnRunComplete(report formatter.Report) error {
	args := m.Called(report)
	return args.Error(0)
}
