package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/chinazagideon/mock-generator/internal/etl"
	"github.com/chinazagideon/mock-generator/internal/generator"
	"github.com/chinazagideon/mock-generator/internal/presets"
	"github.com/chinazagideon/mock-generator/internal/record"
	"github.com/chinazagideon/mock-generator/internal/schema"
	"github.com/chinazagideon/mock-generator/internal/secret"
	"github.com/chinazagideon/mock-generator/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Generation Service — persisted generation jobs
// ─────────────────────────────────────────────────────────────

// ErrJobRunning is returned when a job is triggered while a previous
// run of the same job is still in progress.
var ErrJobRunning = errors.New("job is already running")

const (
	runTimeout      = 5 * time.Minute
	previewDefault  = 10
	previewMax      = 100
	watchDebounce   = 500 * time.Millisecond
	runLogHistory   = 50
	eventJobDone    = "generation:job-completed"
	eventJobsChange = "generation:jobs-changed"
)

// GenerationService manages generation jobs, scheduling, and schema
// file watching. It is decoupled from its front end via EventEmitter.
type GenerationService struct {
	store   *storage.JobStore
	secrets secret.SecretStore
	engine  *etl.Engine
	emitter EventEmitter
	runs    runGuard

	// watcher / cron lifecycle
	mu          sync.Mutex
	watchCancel context.CancelFunc
	watcher     *fsnotify.Watcher
	cronSched   *cron.Cron
}

// NewGenerationService creates a GenerationService ready for use.
// Inline sink passwords are kept in secrets, never in the job row; a nil
// secrets store keeps them in memory for the life of the process.
func NewGenerationService(store *storage.JobStore, secrets secret.SecretStore, emitter EventEmitter) *GenerationService {
	if secrets == nil {
		secrets = secret.NewMemoryStore()
	}
	if emitter == nil {
		emitter = LogEmitter{}
	}
	return &GenerationService{
		store:   store,
		secrets: secrets,
		engine:  &etl.Engine{},
		emitter: emitter,
	}
}

// ── Job CRUD ───────────────────────────────────────────────

// CreateJobInput describes a job. Exactly one of Schema, SchemaPath or
// Preset supplies the schema document; a preset also supplies the
// default count and seed.
type CreateJobInput struct {
	Name           string         `json:"name"`
	Schema         string         `json:"schema"`
	SchemaPath     string         `json:"schemaPath"`
	Preset         string         `json:"preset"`
	Count          int            `json:"count"`
	Seed           *int64         `json:"seed"`
	AdditionalData record.Record  `json:"additionalData"`
	SinkType       string         `json:"sinkType"`
	SinkConfig     map[string]any `json:"sinkConfig"`
	Target         string         `json:"target"`
	WriteMode      string         `json:"writeMode"`
	TriggerType    string         `json:"triggerType"`
	TriggerConfig  string         `json:"triggerConfig"`
	Enabled        bool           `json:"enabled"`
}

func (s *GenerationService) CreateJob(ctx context.Context, input CreateJobInput) (*etl.Job, error) {
	job := &etl.Job{}
	if err := applyInput(job, input); err != nil {
		return nil, err
	}
	var password string
	job.SinkConfig, password = splitPassword(job.SinkConfig)
	if err := s.store.CreateJob(job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	if password != "" {
		if err := s.secrets.Set(jobSecretKey(job.ID), []byte(password)); err != nil {
			_ = s.store.DeleteJob(job.ID)
			return nil, fmt.Errorf("store sink password: %w", err)
		}
	}
	s.RestartWatchers(ctx)
	s.emitter.Emit(ctx, eventJobsChange, job.ID)
	return job, nil
}

// GetJob finds a job by ID or name.
func (s *GenerationService) GetJob(ref string) (*etl.Job, error) {
	return s.store.FindJob(ref)
}

func (s *GenerationService) ListJobs() ([]etl.Job, error) {
	return s.store.ListJobs()
}

func (s *GenerationService) UpdateJob(ctx context.Context, ref string, input CreateJobInput) error {
	job, err := s.store.FindJob(ref)
	if err != nil {
		return err
	}
	if err := applyInput(job, input); err != nil {
		return err
	}
	// an update without a password keeps the stored one
	var password string
	job.SinkConfig, password = splitPassword(job.SinkConfig)
	if password != "" {
		if err := s.secrets.Set(jobSecretKey(job.ID), []byte(password)); err != nil {
			return fmt.Errorf("store sink password: %w", err)
		}
	}
	if err := s.store.UpdateJob(job); err != nil {
		return err
	}
	s.RestartWatchers(ctx)
	s.emitter.Emit(ctx, eventJobsChange, job.ID)
	return nil
}

func (s *GenerationService) DeleteJob(ctx context.Context, ref string) error {
	job, err := s.store.FindJob(ref)
	if err != nil {
		return err
	}
	if err := s.store.DeleteJob(job.ID); err != nil {
		return err
	}
	_ = s.secrets.Delete(jobSecretKey(job.ID))
	s.RestartWatchers(ctx)
	s.emitter.Emit(ctx, eventJobsChange, job.ID)
	return nil
}

func applyInput(job *etl.Job, input CreateJobInput) error {
	if input.Name == "" {
		return errors.New("job name is required")
	}
	if input.Count < 0 {
		return generator.ErrNegativeCount
	}
	if _, err := etl.GetSink(input.SinkType); err != nil {
		return err
	}
	mode, err := etl.ParseWriteMode(input.WriteMode)
	if err != nil {
		return err
	}

	doc, count, seed := input.Schema, input.Count, input.Seed
	switch {
	case input.Preset != "":
		p, err := presets.Get(input.Preset)
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(p.Schema)
		if err != nil {
			return fmt.Errorf("encode preset schema: %w", err)
		}
		doc = string(out)
		if count == 0 {
			count = p.Count
		}
		if seed == nil {
			seed = p.Seed
		}
	case input.SchemaPath != "":
		data, err := os.ReadFile(input.SchemaPath)
		if err != nil {
			return fmt.Errorf("read schema file: %w", err)
		}
		doc = string(data)
	}
	if _, err := schema.Parse([]byte(doc)); err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}

	trigger := input.TriggerType
	if trigger == "" {
		trigger = etl.TriggerManual
	}
	switch trigger {
	case etl.TriggerManual:
	case etl.TriggerSchedule:
		if _, err := cron.ParseStandard(input.TriggerConfig); err != nil {
			return fmt.Errorf("invalid cron expression %q: %w", input.TriggerConfig, err)
		}
	case etl.TriggerFileWatch:
		if input.TriggerConfig == "" && input.SchemaPath == "" {
			return errors.New("file_watch jobs need a watch path or schema path")
		}
	default:
		return fmt.Errorf("unknown trigger type %q", trigger)
	}

	job.Name = input.Name
	job.Schema = doc
	job.SchemaPath = input.SchemaPath
	job.Count = count
	job.Seed = seed
	job.AdditionalData = input.AdditionalData
	job.SinkType = input.SinkType
	job.SinkConfig = input.SinkConfig
	job.Target = input.Target
	job.WriteMode = mode
	job.TriggerType = trigger
	job.TriggerConfig = input.TriggerConfig
	job.Enabled = input.Enabled
	return nil
}

// jobSecretKey is the SecretStore key for a job's inline sink password.
func jobSecretKey(id string) string { return "job:" + id }

// splitPassword returns a copy of cfg without its "password" entry, and
// that entry's value.
func splitPassword(cfg etl.SinkConfig) (etl.SinkConfig, string) {
	if _, ok := cfg["password"]; !ok {
		return cfg, ""
	}
	password := cfg.String("password")
	out := make(etl.SinkConfig, len(cfg)-1)
	for k, v := range cfg {
		if k != "password" {
			out[k] = v
		}
	}
	return out, password
}

// runConfig is the job's sink config with its stored password restored.
func (s *GenerationService) runConfig(job *etl.Job) etl.SinkConfig {
	pw, err := s.secrets.Get(jobSecretKey(job.ID))
	if err != nil || len(pw) == 0 {
		return job.SinkConfig
	}
	cfg := make(etl.SinkConfig, len(job.SinkConfig)+1)
	for k, v := range job.SinkConfig {
		cfg[k] = v
	}
	cfg["password"] = string(pw)
	return cfg
}

// ── Run ────────────────────────────────────────────────────

// RunJob executes a job synchronously. Jobs backed by a schema file
// re-read it first so watched edits take effect.
func (s *GenerationService) RunJob(ctx context.Context, ref string) (*etl.RunResult, error) {
	job, err := s.store.FindJob(ref)
	if err != nil {
		return nil, err
	}
	id := job.ID

	if err := s.runs.acquire(job); err != nil {
		return nil, err
	}
	defer s.runs.release(id)

	if job.SchemaPath != "" {
		if data, err := os.ReadFile(job.SchemaPath); err != nil {
			log.Printf("[GENERATE] job %s: keeping stored schema, read %s: %v", job.Name, job.SchemaPath, err)
		} else if string(data) != job.Schema {
			job.Schema = string(data)
			if err := s.store.UpdateJob(job); err != nil {
				log.Printf("[GENERATE] job %s: failed to store reloaded schema: %v", job.Name, err)
			}
		}
	}

	if err := s.store.UpdateJobStatus(id, etl.StatusRunning, ""); err != nil {
		log.Printf("[GENERATE] job %s: failed to mark running: %v", job.Name, err)
	}

	runCtx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	start := time.Now()
	run := *job
	run.SinkConfig = s.runConfig(job)
	result, runErr := s.engine.Run(runCtx, &run)

	runLog := &etl.RunLog{
		JobID:         id,
		StartedAt:     start,
		FinishedAt:    time.Now(),
		Status:        result.Status,
		RowsGenerated: result.RowsGenerated,
		RowsWritten:   result.RowsWritten,
		Error:         result.Error,
	}
	if err := s.store.CreateRunLog(runLog); err != nil {
		log.Printf("[GENERATE] job %s: failed to store run log: %v", job.Name, err)
	}
	if err := s.store.UpdateJobStatus(id, result.Status, result.Error); err != nil {
		log.Printf("[GENERATE] job %s: failed to store status %s: %v", job.Name, result.Status, err)
	}

	s.emitter.Emit(ctx, eventJobDone, map[string]any{
		"jobId":       id,
		"status":      result.Status,
		"rowsWritten": result.RowsWritten,
	})
	return result, runErr
}

// ListRunLogs returns the most recent run logs for a job.
func (s *GenerationService) ListRunLogs(ref string) ([]etl.RunLog, error) {
	job, err := s.store.FindJob(ref)
	if err != nil {
		return nil, err
	}
	return s.store.ListRunLogs(job.ID, runLogHistory)
}

// ── Preview / Catalogue ────────────────────────────────────

// PreviewResult is the response from Preview.
type PreviewResult struct {
	Columns []etl.Column   `json:"columns"`
	Records record.Dataset `json:"records"`
}

// Preview builds up to n records from a schema document without writing
// anything. n defaults to 10 and is capped at 100.
func (s *GenerationService) Preview(ctx context.Context, doc string, n int, seed *int64) (*PreviewResult, error) {
	sc, err := schema.Parse([]byte(doc))
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return s.PreviewSchema(ctx, sc, n, seed)
}

// PreviewSchema is Preview for an already parsed schema.
func (s *GenerationService) PreviewSchema(ctx context.Context, sc schema.Schema, n int, seed *int64) (*PreviewResult, error) {
	switch {
	case n <= 0:
		n = previewDefault
	case n > previewMax:
		n = previewMax
	}
	ds, cols, err := s.engine.Preview(ctx, sc, n, seed)
	if err != nil {
		return nil, err
	}
	return &PreviewResult{Columns: cols, Records: ds}, nil
}

// ListGenerators returns every registered generator tag.
func (s *GenerationService) ListGenerators() []generator.Descriptor {
	return generator.List()
}

// ListSinks returns the available sink descriptors.
func (s *GenerationService) ListSinks() []etl.SinkSpec {
	return etl.ListSinks()
}

// ── Watchers (cron + file_watch) ──────────────────────────

// RestartWatchers tears down the current watcher/cron and rebuilds them from scratch.
func (s *GenerationService) RestartWatchers(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopWatchers()

	jobs, err := s.store.ListEnabledTriggeredJobs()
	if err != nil {
		log.Printf("[SCHEDULER] failed to list jobs: %v", err)
		return
	}

	// ── Cron jobs ──
	c := cron.New()
	scheduled := 0
	for _, j := range jobs {
		if j.TriggerType != etl.TriggerSchedule || j.TriggerConfig == "" {
			continue
		}
		jid, name := j.ID, j.Name
		if _, err := c.AddFunc(j.TriggerConfig, func() {
			log.Printf("[SCHEDULER] running job %s", name)
			if _, err := s.RunJob(ctx, jid); err != nil {
				log.Printf("[SCHEDULER] job %s failed: %v", name, err)
			}
		}); err != nil {
			log.Printf("[SCHEDULER] invalid expression %q for job %s: %v", j.TriggerConfig, name, err)
			continue
		}
		scheduled++
	}
	if scheduled > 0 {
		c.Start()
		s.cronSched = c
		log.Printf("[SCHEDULER] scheduled %d job(s)", scheduled)
	}

	// ── File watchers ──
	pathToJob := make(map[string]string)
	for _, j := range jobs {
		if j.TriggerType != etl.TriggerFileWatch {
			continue
		}
		path := j.TriggerConfig
		if path == "" {
			path = j.SchemaPath
		}
		absPath, err := filepath.Abs(path)
		if err != nil {
			log.Printf("[WATCHER] bad path %q: %v", path, err)
			continue
		}
		pathToJob[absPath] = j.ID
	}
	if len(pathToJob) == 0 {
		return
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("[WATCHER] failed to create watcher: %v", err)
		return
	}
	s.watcher = watcher

	// Watch directories: editors replace files on save, which drops a
	// watch placed on the file itself.
	watchedDirs := make(map[string]bool)
	for absPath := range pathToJob {
		dir := filepath.Dir(absPath)
		if watchedDirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			log.Printf("[WATCHER] failed to watch dir %q: %v", dir, err)
			continue
		}
		watchedDirs[dir] = true
	}

	watchCtx, cancel := context.WithCancel(context.Background())
	s.watchCancel = cancel

	go func() {
		timers := make(map[string]*time.Timer)
		defer func() {
			for _, t := range timers {
				t.Stop()
			}
		}()
		for {
			select {
			case <-watchCtx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				absPath, _ := filepath.Abs(event.Name)
				jobID, ok := pathToJob[absPath]
				if !ok {
					continue
				}
				if t, exists := timers[jobID]; exists {
					t.Stop()
				}
				jid := jobID
				timers[jobID] = time.AfterFunc(watchDebounce, func() {
					log.Printf("[WATCHER] file changed %q, running job %s", absPath, jid)
					if _, err := s.RunJob(ctx, jid); err != nil {
						log.Printf("[WATCHER] run failed for job %s: %v", jid, err)
					}
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("[WATCHER] error: %v", err)
			}
		}
	}()

	log.Printf("[WATCHER] watching %d file(s)", len(pathToJob))
}

// RunningJobs returns the IDs of jobs with a run in progress.
func (s *GenerationService) RunningJobs() []string {
	return s.runs.active()
}

// WaitRunning blocks until all running jobs finish or ctx is cancelled.
// Used for graceful shutdown.
func (s *GenerationService) WaitRunning(ctx context.Context) {
	s.runs.wait(ctx)
}

// Stop tears down all watchers and schedulers.
func (s *GenerationService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopWatchers()
}

func (s *GenerationService) stopWatchers() {
	if s.watchCancel != nil {
		s.watchCancel()
		s.watchCancel = nil
	}
	if s.watcher != nil {
		s.watcher.Close()
		s.watcher = nil
	}
	if s.cronSched != nil {
		s.cronSched.Stop()
		s.cronSched = nil
	}
}
