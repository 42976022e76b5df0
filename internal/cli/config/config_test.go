package config

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dj95/kdl-fmt/internal/testutil"
	"github.com/dj95/kdl-fmt/pkg/formatter"
	"github.com/dj95/kdl-fmt/pkg/kdl"
)

// newFlags returns a flag set defined the way the root command defines it,
// with args already parsed.
func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	DefineFlags(flags)
	require.NoError(t, flags.Parse(args))
	return flags
}

func load(t *testing.T, workDir string, args ...string) (Loaded, *bytes.Buffer, error) {
	t.Helper()
	flags := newFlags(t, args...)
	var stderr bytes.Buffer
	loaded, err := LoadAndValidate(workDir, flags.Args(), flags, &stderr)
	return loaded, &stderr, err
}

func TestLoadAndValidate_Defaults(t *testing.T) {
	loaded, _, err := load(t, t.TempDir(), "doc.kdl")
	require.NoError(t, err)
	require.NotNil(t, loaded.Logger)

	want := formatter.DefaultConfig()
	want.Filename = "doc.kdl"
	assert.Equal(t, want, loaded.Config)
	assert.Equal(t, Settings{LogFormat: "text", Color: "auto"}, loaded.Settings)
	assert.False(t, loaded.PrintConfig)
}

func TestLoadAndValidate_StdinInputs(t *testing.T) {
	for _, args := range [][]string{nil, {"-"}} {
		loaded, _, err := load(t, t.TempDir(), args...)
		require.NoError(t, err)
		assert.Empty(t, loaded.Config.Filename)
	}
}

func TestLoadAndValidate_FlagsMapToInvocation(t *testing.T) {
	loaded, _, err := load(t, t.TempDir(),
		"--from-v2", "--to-v1", "-s", "-i", "2", "-n", "--in-place", "doc.kdl")
	require.NoError(t, err)

	cfg := loaded.Config
	require.NotNil(t, cfg.AssumeVersion)
	require.NotNil(t, cfg.EnsureVersion)
	assert.Equal(t, kdl.V2, *cfg.AssumeVersion)
	assert.Equal(t, kdl.V1, *cfg.EnsureVersion)
	assert.True(t, cfg.StripComments)
	assert.Equal(t, 2, cfg.IndentLevel)
	assert.True(t, cfg.NoFormat)
	assert.True(t, cfg.InPlace)
	assert.Equal(t, "doc.kdl", cfg.Filename)
}

func TestLoadAndValidate_ProjectConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	testutil.CreateDummyFile(t, filepath.Join(dir, formatter.ProjectConfigFileName),
		"ensure_version \"v2\"\nstrip_comments #true\nindent_level 2\n")

	t.Run("project over defaults", func(t *testing.T) {
		loaded, _, err := load(t, dir)
		require.NoError(t, err)
		assert.Equal(t, kdl.V2, *loaded.Config.EnsureVersion)
		assert.True(t, loaded.Config.StripComments)
		assert.Equal(t, 2, loaded.Config.IndentLevel)
	})

	t.Run("explicit flags over project", func(t *testing.T) {
		loaded, _, err := load(t, dir, "--strip-comments=false", "--indent-level", "4", "--to-v1")
		require.NoError(t, err)
		assert.Equal(t, kdl.V1, *loaded.Config.EnsureVersion)
		assert.False(t, loaded.Config.StripComments)
		assert.Equal(t, 4, loaded.Config.IndentLevel)
	})

	t.Run("unset boolean flag keeps project value", func(t *testing.T) {
		loaded, _, err := load(t, dir, "--from-v1=false")
		require.NoError(t, err)
		assert.True(t, loaded.Config.StripComments)
		assert.Nil(t, loaded.Config.AssumeVersion)
	})
}

func TestLoadAndValidate_ValidationRunsBeforeProjectConfig(t *testing.T) {
	dir := t.TempDir()
	// Reading this project file would fail; validation errors must come first.
	testutil.CreateDummyFile(t, filepath.Join(dir, formatter.ProjectConfigFileName), "broken {\n")

	_, _, err := load(t, dir, "--to-v1", "--to-v2", "doc.kdl")
	assert.ErrorIs(t, err, formatter.ErrConflictingOptions)

	_, _, err = load(t, dir, "--in-place")
	assert.ErrorIs(t, err, formatter.ErrMissingTargetForInPlace)

	_, _, err = load(t, dir, "--in-place", "-")
	assert.ErrorIs(t, err, formatter.ErrMissingTargetForInPlace)

	_, _, err = load(t, dir, "doc.kdl")
	assert.ErrorIs(t, err, formatter.ErrConfigDocumentInvalid)
}

func TestLoadAndValidate_Settings(t *testing.T) {
	t.Run("environment", func(t *testing.T) {
		t.Setenv("KDLFMT_VERBOSE", "true")
		t.Setenv("KDLFMT_LOG_FORMAT", "json")
		t.Setenv("KDLFMT_COLOR", "never")

		loaded, stderr, err := load(t, t.TempDir())
		require.NoError(t, err)
		assert.True(t, loaded.Settings.Verbose)
		assert.Equal(t, "json", loaded.Settings.LogFormat)
		assert.Equal(t, "never", loaded.Settings.Color)
		assert.Contains(t, stderr.String(), `"msg":"Configuration loading and validation complete"`)
	})

	t.Run("flags beat environment", func(t *testing.T) {
		t.Setenv("KDLFMT_COLOR", "never")
		loaded, stderr, err := load(t, t.TempDir(), "--color", "always", "--encoding", "latin1")
		require.NoError(t, err)
		assert.Equal(t, "always", loaded.Settings.Color)
		assert.Equal(t, "latin1", loaded.Settings.Encoding)
		assert.Empty(t, stderr.String(), "debug records are off without --verbose")
	})

	t.Run("invalid values", func(t *testing.T) {
		_, _, err := load(t, t.TempDir(), "--log-format", "xml")
		assert.ErrorIs(t, err, ErrInvalidSetting)

		_, _, err = load(t, t.TempDir(), "--color", "sometimes")
		assert.ErrorIs(t, err, ErrInvalidSetting)

		_, _, err = load(t, t.TempDir(), "--indent-level", "5000")
		assert.ErrorIs(t, err, ErrInvalidSetting)
	})
}

func TestLoadAndValidate_PrintConfig(t *testing.T) {
	loaded, _, err := load(t, t.TempDir(), "--print-config")
	require.NoError(t, err)
	assert.True(t, loaded.PrintConfig)
}

func TestIndentLevelRejectsNegativeValues(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.SetOutput(&bytes.Buffer{})
	DefineFlags(flags)
	assert.Error(t, flags.Parse([]string{"--indent-level", "-1"}))
}

func TestIsValidEnumValue(t *testing.T) {
	assert.True(t, isValidEnumValue("json", LogFormats))
	assert.False(t, isValidEnumValue("JSON", LogFormats))
}
