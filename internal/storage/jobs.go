package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chinazagideon/mock-generator/internal/etl"
)

// ErrNotFound is returned when a job or connection does not exist.
var ErrNotFound = errors.New("not found")

// JobStore implements persistence for generation jobs and run logs.
type JobStore struct {
	db *DB
}

// NewJobStore creates a new JobStore.
func NewJobStore(db *DB) *JobStore {
	return &JobStore{db: db}
}

const jobColumns = `id, name, schema_doc, schema_path, record_count, seed, additional_data,
	 sink_type, sink_config, target, write_mode, trigger_type, trigger_config, enabled,
	 last_run_at, last_status, last_error, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*etl.Job, error) {
	job := &etl.Job{}
	var seed sql.NullInt64
	var additional, sinkCfg string
	err := row.Scan(
		&job.ID, &job.Name, &job.Schema, &job.SchemaPath, &job.Count, &seed, &additional,
		&job.SinkType, &sinkCfg, &job.Target, &job.WriteMode, &job.TriggerType, &job.TriggerConfig, &job.Enabled,
		&job.LastRunAt, &job.LastStatus, &job.LastError, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if seed.Valid {
		v := seed.Int64
		job.Seed = &v
	}
	if err := json.Unmarshal([]byte(additional), &job.AdditionalData); err != nil {
		return nil, fmt.Errorf("job %s additional data: %w", job.ID, err)
	}
	if err := json.Unmarshal([]byte(sinkCfg), &job.SinkConfig); err != nil {
		return nil, fmt.Errorf("job %s sink config: %w", job.ID, err)
	}
	return job, nil
}

func jobArgs(job *etl.Job) (seed any, additional, sinkCfg string, err error) {
	if job.Seed != nil {
		seed = *job.Seed
	}
	a, err := json.Marshal(job.AdditionalData)
	if err != nil {
		return nil, "", "", fmt.Errorf("encode additional data: %w", err)
	}
	cfg := job.SinkConfig
	if cfg == nil {
		cfg = etl.SinkConfig{}
	}
	c, err := json.Marshal(cfg)
	if err != nil {
		return nil, "", "", fmt.Errorf("encode sink config: %w", err)
	}
	return seed, string(a), string(c), nil
}

// ── Job CRUD ───────────────────────────────────────────────

func (s *JobStore) CreateJob(job *etl.Job) error {
	now := time.Now()
	job.ID = uuid.New().String()
	job.CreatedAt = now
	job.UpdatedAt = now

	seed, additional, sinkCfg, err := jobArgs(job)
	if err != nil {
		return err
	}
	_, err = s.db.conn.Exec(
		`INSERT INTO generation_jobs (`+jobColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.Name, job.Schema, job.SchemaPath, job.Count, seed, additional,
		job.SinkType, sinkCfg, job.Target, job.WriteMode, job.TriggerType, job.TriggerConfig, job.Enabled,
		job.LastRunAt, job.LastStatus, job.LastError, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job %q: %w", job.Name, err)
	}
	return nil
}

func (s *JobStore) GetJob(id string) (*etl.Job, error) {
	job, err := scanJob(s.db.conn.QueryRow(`SELECT `+jobColumns+` FROM generation_jobs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("generation job %s: %w", id, ErrNotFound)
	}
	return job, err
}

// FindJob looks a job up by ID, then by name.
func (s *JobStore) FindJob(ref string) (*etl.Job, error) {
	job, err := s.GetJob(ref)
	if !errors.Is(err, ErrNotFound) {
		return job, err
	}
	job, err = scanJob(s.db.conn.QueryRow(`SELECT `+jobColumns+` FROM generation_jobs WHERE name = ?`, ref))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("generation job %q: %w", ref, ErrNotFound)
	}
	return job, err
}

func (s *JobStore) UpdateJob(job *etl.Job) error {
	job.UpdatedAt = time.Now()
	seed, additional, sinkCfg, err := jobArgs(job)
	if err != nil {
		return err
	}
	_, err = s.db.conn.Exec(
		`UPDATE generation_jobs SET name=?, schema_doc=?, schema_path=?, record_count=?, seed=?,
		 additional_data=?, sink_type=?, sink_config=?, target=?, write_mode=?, trigger_type=?,
		 trigger_config=?, enabled=?, updated_at=? WHERE id=?`,
		job.Name, job.Schema, job.SchemaPath, job.Count, seed,
		additional, job.SinkType, sinkCfg, job.Target, job.WriteMode, job.TriggerType,
		job.TriggerConfig, job.Enabled, job.UpdatedAt, job.ID,
	)
	return err
}

func (s *JobStore) UpdateJobStatus(id, status, errMsg string) error {
	now := time.Now()
	_, err := s.db.conn.Exec(
		`UPDATE generation_jobs SET last_run_at=?, last_status=?, last_error=?, updated_at=? WHERE id=?`,
		now, status, errMsg, now, id,
	)
	return err
}

func (s *JobStore) DeleteJob(id string) error {
	// Delete run logs first.
	if _, err := s.db.conn.Exec(`DELETE FROM generation_runs WHERE job_id = ?`, id); err != nil {
		return err
	}
	_, err := s.db.conn.Exec(`DELETE FROM generation_jobs WHERE id = ?`, id)
	return err
}

func (s *JobStore) ListJobs() ([]etl.Job, error) {
	return s.listJobs(`SELECT ` + jobColumns + ` FROM generation_jobs ORDER BY created_at ASC`)
}

// ListEnabledTriggeredJobs returns enabled jobs with a schedule or file_watch trigger.
func (s *JobStore) ListEnabledTriggeredJobs() ([]etl.Job, error) {
	return s.listJobs(`SELECT ` + jobColumns + ` FROM generation_jobs
		 WHERE enabled = 1 AND trigger_type IN ('schedule', 'file_watch')
		 ORDER BY created_at ASC`)
}

func (s *JobStore) listJobs(query string) ([]etl.Job, error) {
	rows, err := s.db.conn.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []etl.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// ── Run Logs ───────────────────────────────────────────────

func (s *JobStore) CreateRunLog(l *etl.RunLog) error {
	l.ID = uuid.New().String()
	_, err := s.db.conn.Exec(
		`INSERT INTO generation_runs (id, job_id, started_at, finished_at, status, rows_generated, rows_written, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.JobID, l.StartedAt, l.FinishedAt, l.Status, l.RowsGenerated, l.RowsWritten, l.Error,
	)
	return err
}

func (s *JobStore) ListRunLogs(jobID string, limit int) ([]etl.RunLog, error) {
	rows, err := s.db.conn.Query(
		`SELECT id, job_id, started_at, finished_at, status, rows_generated, rows_written, error
		 FROM generation_runs WHERE job_id = ? ORDER BY started_at DESC LIMIT ?`,
		jobID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []etl.RunLog
	for rows.Next() {
		var l etl.RunLog
		if err := rows.Scan(&l.ID, &l.JobID, &l.StartedAt, &l.FinishedAt, &l.Status, &l.RowsGenerated, &l.RowsWritten, &l.Error); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
