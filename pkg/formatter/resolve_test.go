package formatter_test

import (
	"testing"

	"github.com/dj95/kdl-fmt/pkg/formatter"
	"github.com/dj95/kdl-fmt/pkg/kdl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestDefaultConfig(t *testing.T) {
	cfg := formatter.DefaultConfig()
	assert.Nil(t, cfg.AssumeVersion)
	assert.Nil(t, cfg.EnsureVersion)
	assert.False(t, cfg.StripComments)
	assert.False(t, cfg.NoFormat)
	assert.Equal(t, 4, cfg.IndentLevel)
	assert.Equal(t, "    ", cfg.FormatConfig().Indent)
}

func TestResolve_Precedence(t *testing.T) {
	project := &formatter.PartialConfig{
		AssumeVersion: ptr(kdl.V1),
		EnsureVersion: ptr(kdl.V2),
		StripComments: ptr(true),
		IndentLevel:   ptr(2),
		NoFormat:      ptr(true),
	}

	testCases := []struct {
		name    string
		project *formatter.PartialConfig
		inv     formatter.Invocation
		check   func(t *testing.T, cfg formatter.Config)
	}{
		{
			name: "defaults only",
			check: func(t *testing.T, cfg formatter.Config) {
				assert.Equal(t, formatter.DefaultConfig(), cfg)
			},
		},
		{
			name:    "project overrides defaults",
			project: project,
			check: func(t *testing.T, cfg formatter.Config) {
				assert.Equal(t, kdl.V1, *cfg.AssumeVersion)
				assert.Equal(t, kdl.V2, *cfg.EnsureVersion)
				assert.True(t, cfg.StripComments)
				assert.Equal(t, 2, cfg.IndentLevel)
				assert.True(t, cfg.NoFormat)
			},
		},
		{
			name:    "invocation overrides project per field",
			project: project,
			inv:     formatter.Invocation{IndentLevel: ptr(8)},
			check: func(t *testing.T, cfg formatter.Config) {
				assert.Equal(t, 8, cfg.IndentLevel)
				// Everything else still comes from the project.
				assert.Equal(t, kdl.V1, *cfg.AssumeVersion)
				assert.Equal(t, kdl.V2, *cfg.EnsureVersion)
				assert.True(t, cfg.StripComments)
				assert.True(t, cfg.NoFormat)
			},
		},
		{
			name:    "explicit false beats project true",
			project: project,
			inv:     formatter.Invocation{StripComments: ptr(false), NoFormat: ptr(false)},
			check: func(t *testing.T, cfg formatter.Config) {
				assert.False(t, cfg.StripComments)
				assert.False(t, cfg.NoFormat)
				assert.Equal(t, 2, cfg.IndentLevel)
			},
		},
		{
			name:    "invocation versions beat project versions",
			project: project,
			inv: formatter.Invocation{
				AssumeRequests: []kdl.Version{kdl.V2},
				EnsureRequests: []kdl.Version{kdl.V1},
			},
			check: func(t *testing.T, cfg formatter.Config) {
				assert.Equal(t, kdl.V2, *cfg.AssumeVersion)
				assert.Equal(t, kdl.V1, *cfg.EnsureVersion)
			},
		},
		{
			name: "assume does not imply ensure",
			inv:  formatter.Invocation{AssumeRequests: []kdl.Version{kdl.V2}},
			check: func(t *testing.T, cfg formatter.Config) {
				assert.Equal(t, kdl.V2, *cfg.AssumeVersion)
				assert.Nil(t, cfg.EnsureVersion)
			},
		},
		{
			name: "first assume request wins",
			inv:  formatter.Invocation{AssumeRequests: []kdl.Version{kdl.V1, kdl.V2}},
			check: func(t *testing.T, cfg formatter.Config) {
				assert.Equal(t, kdl.V1, *cfg.AssumeVersion)
			},
		},
		{
			name: "run-scoped values come from the invocation",
			inv:  formatter.Invocation{InPlace: true, Filename: "config.kdl"},
			check: func(t *testing.T, cfg formatter.Config) {
				assert.True(t, cfg.InPlace)
				assert.Equal(t, "config.kdl", cfg.Filename)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := formatter.Resolve(formatter.DefaultConfig(), tc.project, tc.inv)
			require.NoError(t, err)
			tc.check(t, cfg)
		})
	}
}

func TestResolve_DoesNotAliasLayers(t *testing.T) {
	project := &formatter.PartialConfig{EnsureVersion: ptr(kdl.V1)}
	cfg, err := formatter.Resolve(formatter.DefaultConfig(), project, formatter.Invocation{})
	require.NoError(t, err)

	*cfg.EnsureVersion = kdl.V2
	assert.Equal(t, kdl.V1, *project.EnsureVersion)
}

func TestResolve_ConflictingOutputVersions(t *testing.T) {
	invocations := []formatter.Invocation{
		{EnsureRequests: []kdl.Version{kdl.V1, kdl.V2}},
		{EnsureRequests: []kdl.Version{kdl.V2, kdl.V1}, StripComments: ptr(true)},
		{EnsureRequests: []kdl.Version{kdl.V1, kdl.V2}, InPlace: true, Filename: "a.kdl", IndentLevel: ptr(2)},
		{EnsureRequests: []kdl.Version{kdl.V1, kdl.V2}, AssumeRequests: []kdl.Version{kdl.V1}, NoFormat: ptr(true)},
	}
	for _, inv := range invocations {
		_, err := formatter.Resolve(formatter.DefaultConfig(), nil, inv)
		assert.ErrorIs(t, err, formatter.ErrConflictingOptions)
		assert.ErrorIs(t, inv.Validate(), formatter.ErrConflictingOptions)
	}
}

func TestResolve_InPlaceNeedsFilename(t *testing.T) {
	inv := formatter.Invocation{InPlace: true}
	_, err := formatter.Resolve(formatter.DefaultConfig(), nil, inv)
	assert.ErrorIs(t, err, formatter.ErrMissingTargetForInPlace)

	inv.Filename = "doc.kdl"
	_, err = formatter.Resolve(formatter.DefaultConfig(), nil, inv)
	assert.NoError(t, err)
}

func TestInvocation_RepeatedSameOutputVersionIsNotAConflict(t *testing.T) {
	inv := formatter.Invocation{EnsureRequests: []kdl.Version{kdl.V2, kdl.V2}}
	assert.NoError(t, inv.Validate())
	assert.Equal(t, kdl.V2, *inv.Partial().EnsureVersion)
}
