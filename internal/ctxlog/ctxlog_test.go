package ctxlog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/dj95/kdl-fmt/internal/ctxlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := ctxlog.WithLogger(context.Background(), logger)
	require.Same(t, logger, ctxlog.FromContext(ctx))

	ctxlog.FromContext(ctx).Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestFromContext_MissingLoggerDiscards(t *testing.T) {
	logger := ctxlog.FromContext(context.Background())
	require.NotNil(t, logger)
	assert.NotPanics(t, func() { logger.Error("dropped") })

	var nilLogger *slog.Logger
	assert.NotNil(t, ctxlog.FromContext(ctxlog.WithLogger(context.Background(), nilLogger)))
}
