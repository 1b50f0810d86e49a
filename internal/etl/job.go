package etl

import (
	"context"
	"fmt"
	"time"

	"github.com/chinazagideon/mock-generator/internal/generator"
	"github.com/chinazagideon/mock-generator/internal/record"
	"github.com/chinazagideon/mock-generator/internal/schema"
)

// ── Job ────────────────────────────────────────────────────
// Orchestrates: schema document → dataset builder → sink destination.

// Trigger types.
const (
	TriggerManual    = "manual"
	TriggerSchedule  = "schedule"
	TriggerFileWatch = "file_watch"
)

// Run statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusRunning = "running"
)

// Job is a persisted generation recipe.
type Job struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Schema         string        `json:"schema"` // YAML or JSON schema document
	SchemaPath     string        `json:"schemaPath,omitempty"`
	Count          int           `json:"count"`
	Seed           *int64        `json:"seed,omitempty"`
	AdditionalData record.Record `json:"additionalData"`
	SinkType       string        `json:"sinkType"`
	SinkConfig     SinkConfig    `json:"sinkConfig"`
	Target         string        `json:"target"` // file path, table, collection or bucket
	WriteMode      WriteMode     `json:"writeMode"`
	TriggerType    string        `json:"triggerType"`   // "manual" | "schedule" | "file_watch"
	TriggerConfig  string        `json:"triggerConfig"` // cron expression or watch path
	Enabled        bool          `json:"enabled"`
	LastRunAt      time.Time     `json:"lastRunAt"`
	LastStatus     string        `json:"lastStatus"` // "success" | "error" | "running" | ""
	LastError      string        `json:"lastError"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// RunResult is the outcome of running a job.
type RunResult struct {
	JobID         string        `json:"jobId"`
	Status        string        `json:"status"` // "success" | "error"
	RowsGenerated int           `json:"rowsGenerated"`
	RowsWritten   int           `json:"rowsWritten"`
	Duration      time.Duration `json:"duration"`
	Error         string        `json:"error,omitempty"`
}

// RunLog is a historical record of a job run.
type RunLog struct {
	ID            string    `json:"id"`
	JobID         string    `json:"jobId"`
	StartedAt     time.Time `json:"startedAt"`
	FinishedAt    time.Time `json:"finishedAt"`
	Status        string    `json:"status"`
	RowsGenerated int       `json:"rowsGenerated"`
	RowsWritten   int       `json:"rowsWritten"`
	Error         string    `json:"error,omitempty"`
}

// ── Engine ─────────────────────────────────────────────────

// Engine runs jobs against the registered sinks.
type Engine struct {
	// Now anchors relative dates for unseeded runs. Nil means time.Now.
	Now func() time.Time
}

// Run executes a job end-to-end.
func (e *Engine) Run(ctx context.Context, job *Job) (*RunResult, error) {
	start := time.Now()
	result := &RunResult{JobID: job.ID}
	fail := func(stage string, err error) (*RunResult, error) {
		result.Status = StatusError
		result.Error = fmt.Sprintf("%s: %s", stage, err)
		result.Duration = time.Since(start)
		return result, fmt.Errorf("%s: %w", stage, err)
	}

	// 1. Resolve sink from registry.
	sink, err := GetSink(job.SinkType)
	if err != nil {
		return fail("sink", err)
	}

	// 2. Parse the schema document.
	s, err := schema.Parse([]byte(job.Schema))
	if err != nil {
		return fail("schema", err)
	}

	// 3. Build the dataset.
	ds, err := generator.Build(job.Count, s, e.options(job))
	if err != nil {
		return fail("generate", err)
	}
	result.RowsGenerated = len(ds)

	// 4. Write to destination.
	dest, err := sink.Open(ctx, job.SinkConfig)
	if err != nil {
		return fail("open sink", err)
	}
	defer dest.Close()

	mode := job.WriteMode
	if mode == "" {
		mode = WriteAppend
	}
	written, err := dest.Write(ctx, job.Target, ds, mode)
	result.RowsWritten = written
	if err != nil {
		return fail("write", err)
	}

	result.Status = StatusSuccess
	result.Duration = time.Since(start)
	return result, nil
}

// Preview builds up to n records without touching any sink.
func (e *Engine) Preview(ctx context.Context, s schema.Schema, n int, seed *int64) (record.Dataset, []Column, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	ds, err := generator.Build(n, s, generator.Options{Seed: seed, Now: e.now(seed)})
	if err != nil {
		return nil, nil, err
	}
	return ds, InferColumns(ds), nil
}

func (e *Engine) options(job *Job) generator.Options {
	return generator.Options{
		Seed:           job.Seed,
		AdditionalData: job.AdditionalData,
		Now:            e.now(job.Seed),
	}
}

// now leaves seeded runs on the generator's fixed epoch.
func (e *Engine) now(seed *int64) time.Time {
	if seed != nil || e.Now == nil {
		return time.Time{}
	}
	return e.Now()
}
