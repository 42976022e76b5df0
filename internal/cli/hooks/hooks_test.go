package hooks

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dj95/kdl-fmt/pkg/formatter"
	"github.com/dj95/kdl-fmt/pkg/kdl"
)

func newJSONLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// decodeRecords parses one JSON log record per line.
func decodeRecords(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		records = append(records, rec)
	}
	return records
}

func TestCLIHooks_OnStageUpdate(t *testing.T) {
	t.Run("Verbose Enabled", func(t *testing.T) {
		logBuf := &bytes.Buffer{}
		hooks := NewCLIHooks(newJSONLogger(logBuf), true)

		require.NoError(t, hooks.OnStageUpdate(formatter.StageNormalize, formatter.StatusSuccess, 5*time.Millisecond))
		require.NoError(t, hooks.OnStageUpdate(formatter.StageDetect, formatter.StatusFailed, 0))

		records := decodeRecords(t, logBuf)
		require.Len(t, records, 2)

		assert.Equal(t, "DEBUG", records[0]["level"])
		assert.Equal(t, "Stage finished", records[0]["msg"])
		assert.Equal(t, "normalize", records[0]["stage"])
		assert.Equal(t, "success", records[0]["status"])
		assert.Contains(t, records[0], "duration")

		assert.Equal(t, "Stage failed", records[1]["msg"])
		assert.Equal(t, "failed", records[1]["status"])
		assert.NotContains(t, records[1], "duration", "zero durations are omitted")
	})

	t.Run("Verbose Disabled", func(t *testing.T) {
		logBuf := &bytes.Buffer{}
		hooks := NewCLIHooks(newJSONLogger(logBuf), false)
		require.NoError(t, hooks.OnStageUpdate(formatter.StageDetect, formatter.StatusFailed, time.Second))
		assert.Empty(t, logBuf.String())
	})
}

func TestCLIHooks_OnRunComplete(t *testing.T) {
	report := formatter.Report{
		Filename:      "doc.kdl",
		SourceVersion: kdl.V1,
		TargetVersion: kdl.V2,
		Formatted:     true,
		Converted:     true,
		Changed:       true,
	}

	t.Run("Verbose Enabled", func(t *testing.T) {
		logBuf := &bytes.Buffer{}
		require.NoError(t, NewCLIHooks(newJSONLogger(logBuf), true).OnRunComplete(report))

		records := decodeRecords(t, logBuf)
		require.Len(t, records, 1)
		assert.Equal(t, "Run complete", records[0]["msg"])
		assert.Equal(t, "doc.kdl", records[0]["filename"])
		assert.Equal(t, "v1", records[0]["sourceVersion"])
		assert.Equal(t, "v2", records[0]["targetVersion"])
		assert.Equal(t, true, records[0]["converted"])
		assert.Equal(t, false, records[0]["assumed"])
	})

	t.Run("Verbose Disabled", func(t *testing.T) {
		logBuf := &bytes.Buffer{}
		require.NoError(t, NewCLIHooks(newJSONLogger(logBuf), false).OnRunComplete(report))
		assert.Empty(t, logBuf.String())
	})
}
