package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chinazagideon/mock-generator/internal/etl"
	"github.com/chinazagideon/mock-generator/internal/service"
)

func TestDefaultConfigHonoursEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(DataDirEnv, dir)

	cfg := DefaultConfig()
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, "mockgen.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join(dir, "output"), cfg.OutputDir)
}

func TestDefaultConfigHome(t *testing.T) {
	t.Setenv(DataDirEnv, "")
	cfg := DefaultConfig()
	assert.Equal(t, "mock-generator", filepath.Base(cfg.DataDir))
}

func TestOpenWiresSavedConnections(t *testing.T) {
	cfg := ConfigAt(t.TempDir())
	a, err := Open(cfg)
	require.NoError(t, err)
	defer a.Close()

	ctx := context.Background()
	_, err = a.Sinks.CreateConnection(service.SinkConnInput{
		Name: "scratch", Driver: "bolt", Host: filepath.Join(cfg.DataDir, "scratch.bolt"),
	})
	require.NoError(t, err)

	_, err = a.Generation.CreateJob(ctx, service.CreateJobInput{
		Name:       "events",
		Preset:     "events",
		Count:      6,
		SinkType:   "bolt",
		SinkConfig: map[string]any{"connection": "scratch"},
		Target:     "events",
		WriteMode:  "replace",
	})
	require.NoError(t, err)

	result, err := a.Generation.RunJob(ctx, "events")
	require.NoError(t, err)
	assert.Equal(t, etl.StatusSuccess, result.Status)
	assert.Equal(t, 6, result.RowsWritten)

	info, err := a.Sinks.Introspect(ctx, "scratch")
	require.NoError(t, err)
	require.Len(t, info.Tables, 1)
	assert.Equal(t, "events", info.Tables[0].Name)
}
