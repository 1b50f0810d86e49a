package storage_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chinazagideon/mock-generator/internal/domain"
	"github.com/chinazagideon/mock-generator/internal/etl"
	"github.com/chinazagideon/mock-generator/internal/generator"
	"github.com/chinazagideon/mock-generator/internal/record"
	"github.com/chinazagideon/mock-generator/internal/storage"
)

func openDB(t *testing.T) *storage.DB {
	t.Helper()
	dir := t.TempDir()
	db, err := storage.New(filepath.Join(dir, "mockgen.db"), dir)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestJobCRUD(t *testing.T) {
	store := storage.NewJobStore(openDB(t))

	job := &etl.Job{
		Name:           "nightly-merchants",
		Schema:         "id: id\nname: companyName\n",
		Count:          25,
		Seed:           generator.Seed(67890),
		AdditionalData: record.New("tenant", "acme"),
		SinkType:       "file",
		SinkConfig:     etl.SinkConfig{"format": "csv"},
		Target:         "/tmp/merchants.csv",
		WriteMode:      etl.WriteReplace,
		TriggerType:    etl.TriggerSchedule,
		TriggerConfig:  "@daily",
		Enabled:        true,
	}
	require.NoError(t, store.CreateJob(job))
	require.NotEmpty(t, job.ID)

	got, err := store.GetJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.Name, got.Name)
	assert.Equal(t, job.Schema, got.Schema)
	require.NotNil(t, got.Seed)
	assert.Equal(t, int64(67890), *got.Seed)
	assert.Equal(t, []string{"tenant"}, got.AdditionalData.Keys())
	assert.Equal(t, "csv", got.SinkConfig.String("format"))
	assert.Equal(t, etl.WriteReplace, got.WriteMode)
	assert.True(t, got.Enabled)

	byName, err := store.FindJob("nightly-merchants")
	require.NoError(t, err)
	assert.Equal(t, job.ID, byName.ID)

	got.Seed = nil
	got.Enabled = false
	require.NoError(t, store.UpdateJob(got))
	got, err = store.GetJob(job.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Seed)
	assert.False(t, got.Enabled)

	triggered, err := store.ListEnabledTriggeredJobs()
	require.NoError(t, err)
	assert.Empty(t, triggered)

	require.NoError(t, store.UpdateJobStatus(job.ID, etl.StatusSuccess, ""))
	got, err = store.GetJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, etl.StatusSuccess, got.LastStatus)
	assert.False(t, got.LastRunAt.IsZero())

	require.NoError(t, store.CreateRunLog(&etl.RunLog{
		JobID: job.ID, StartedAt: time.Now().Add(-time.Second), FinishedAt: time.Now(),
		Status: etl.StatusSuccess, RowsGenerated: 25, RowsWritten: 25,
	}))
	logs, err := store.ListRunLogs(job.ID, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 25, logs[0].RowsWritten)

	require.NoError(t, store.DeleteJob(job.ID))
	_, err = store.GetJob(job.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.FindJob("nightly-merchants")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestJobNamesAreUnique(t *testing.T) {
	store := storage.NewJobStore(openDB(t))
	require.NoError(t, store.CreateJob(&etl.Job{Name: "dup", Schema: "id: id"}))
	assert.Error(t, store.CreateJob(&etl.Job{Name: "dup", Schema: "id: id"}))
}

func TestSinkConnectionCRUD(t *testing.T) {
	store := storage.NewSinkConnectionStore(openDB(t))

	c := &domain.SinkConnection{Name: "local-pg", Driver: domain.SinkDriverPostgres, Host: "localhost", Port: 5432, Database: "mock"}
	require.NoError(t, store.CreateConnection(c))

	got, err := store.GetConnectionByName("local-pg")
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, domain.SinkDriverPostgres, got.Driver)
	assert.Equal(t, "{}", got.ExtraJSON)

	got.Port = 6543
	require.NoError(t, store.UpdateConnection(got))
	got, err = store.GetConnection(c.ID)
	require.NoError(t, err)
	assert.Equal(t, 6543, got.Port)

	list, err := store.ListConnections()
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, store.DeleteConnection(c.ID))
	_, err = store.GetConnection(c.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
