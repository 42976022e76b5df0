package main

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dj95/kdl-fmt/internal/testutil"
	"github.com/dj95/kdl-fmt/pkg/formatter"
)

// executeCommand runs a fresh root command with args and stdin and captures
// its output and exit code.
func executeCommand(t *testing.T, stdin string, args ...string) (stdout string, stderr string, code int) {
	t.Helper()
	cmd := newRootCmd()
	stdoutBuf := new(bytes.Buffer)
	stderrBuf := new(bytes.Buffer)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(stdoutBuf)
	cmd.SetErr(stderrBuf)
	cmd.SetArgs(args)

	code = execute(context.Background(), cmd)
	return stdoutBuf.String(), stderrBuf.String(), code
}

// inTempDir runs the test from an empty working directory.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testutil.Chdir(t, dir)
	return dir
}

func TestRootCmdHelp_AllFlagsPresent(t *testing.T) {
	stdout, stderr, code := executeCommand(t, "", "--help")
	require.Equal(t, 0, code)
	assert.Empty(t, stderr)
	assert.Contains(t, stdout, "kdl-fmt [INPUT]")

	newRootCmd().Flags().VisitAll(func(f *pflag.Flag) {
		assert.Contains(t, stdout, "--"+f.Name, "Help output should contain flag --%s", f.Name)
		if f.Shorthand != "" {
			assert.Contains(t, stdout, "-"+f.Shorthand+",", "Help output should contain shorthand -%s", f.Shorthand)
		}
	})
}

func TestRootCmdVersion(t *testing.T) {
	originalVersion, originalCommit, originalDate := version, commit, date
	version, commit, date = "test-1.2.3", "testcommit123", "2024-01-01T10:00:00Z"
	defer func() {
		version, commit, date = originalVersion, originalCommit, originalDate
	}()

	stdout, stderr, code := executeCommand(t, "", "--version")
	require.Equal(t, 0, code)
	assert.Empty(t, stderr)
	want := fmt.Sprintf("kdl-fmt version %s (commit: %s, built: %s)\n", version, commit, date)
	assert.Equal(t, want, stdout)
}

func TestRootCmd_FormatsStdin(t *testing.T) {
	inTempDir(t)
	for _, args := range [][]string{nil, {"-"}} {
		stdout, stderr, code := executeCommand(t, "node true {\nchild\n}", append([]string{"--to-v2"}, args...)...)
		require.Equal(t, 0, code, stderr)
		assert.Equal(t, "node #true {\n    child\n}\n", stdout)
	}
}

func TestRootCmd_ProjectConfiguration(t *testing.T) {
	dir := inTempDir(t)
	testutil.CreateDummyFile(t, filepath.Join(dir, formatter.ProjectConfigFileName), "indent_level 2\n")

	stdout, _, code := executeCommand(t, "a {\nb\n}")
	require.Equal(t, 0, code)
	assert.Equal(t, "a {\n  b\n}\n", stdout)

	stdout, _, code = executeCommand(t, "a {\nb\n}", "-i", "3")
	require.Equal(t, 0, code)
	assert.Equal(t, "a {\n   b\n}\n", stdout)
}

func TestRootCmd_InPlace(t *testing.T) {
	dir := inTempDir(t)
	path := filepath.Join(dir, "doc.kdl")
	testutil.CreateDummyFile(t, path, "a {\nb\n}")

	stdout, stderr, code := executeCommand(t, "", "--in-place", "doc.kdl")
	require.Equal(t, 0, code, stderr)
	assert.Empty(t, stdout)
	assert.Equal(t, "a {\n    b\n}\n", testutil.ReadFile(t, path))
}

func TestRootCmd_Failures(t *testing.T) {
	testCases := []struct {
		name    string
		stdin   string
		args    []string
		project string
		wantErr []string // substrings of stderr
	}{
		{
			name:    "conflicting output versions",
			args:    []string{"--to-v1", "--to-v2"},
			wantErr: []string{"error: " + formatter.ErrConflictingOptions.Error()},
		},
		{
			name:    "in place on stdin",
			args:    []string{"--in-place"},
			wantErr: []string{"error: " + formatter.ErrMissingTargetForInPlace.Error()},
		},
		{
			name:    "unparsable input",
			stdin:   "a 1\nnode #bogus\n",
			wantErr: []string{"error: " + formatter.ErrInputParseFailed.Error(), "--> <stdin>:2:6", "2 | node #bogus"},
		},
		{
			name:    "invalid project configuration",
			stdin:   "node\n",
			project: "indent_level #bogus\n",
			wantErr: []string{formatter.ErrConfigDocumentInvalid.Error(), formatter.ProjectConfigFileName + ":1:14"},
		},
		{
			name:    "missing input file",
			args:    []string{"missing.kdl"},
			wantErr: []string{"error: " + formatter.ErrIO.Error()},
		},
		{
			name:    "unknown flag",
			args:    []string{"--bogus"},
			wantErr: []string{"error: unknown flag: --bogus"},
		},
		{
			name:    "too many inputs",
			args:    []string{"a.kdl", "b.kdl"},
			wantErr: []string{"error: accepts between 0 and 1 arg(s), received 2"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := inTempDir(t)
			if tc.project != "" {
				testutil.CreateDummyFile(t, filepath.Join(dir, formatter.ProjectConfigFileName), tc.project)
			}

			stdout, stderr, code := executeCommand(t, tc.stdin, append(tc.args, "--color", "never")...)
			assert.Equal(t, 1, code)
			assert.Empty(t, stdout, "no partial output")
			for _, want := range tc.wantErr {
				assert.Contains(t, stderr, want)
			}
		})
	}
}
