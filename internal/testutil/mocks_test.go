package testutil_test

import (
	"github.com/dj95/kdl-fmt/internal/testutil"
	"github.com/dj95/kdl-fmt/pkg/formatter"
	"github.com/dj95/kdl-fmt/pkg/formatter/encoding"
)

// The mocks must keep satisfying the interfaces they stand in for.
var (
	_ formatter.DocumentParser = (*testutil.MockDocumentParser)(nil)
	_ formatter.Document       = (*testutil.MockDocument)(nil)
	_ formatter.Hooks          = (*testutil.MockHooks)(nil)
	_ encoding.EncodingHandler = (*testutil.MockEncodingHandler)(nil)
)
