package scheduler

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/krishimitra/krishirag/internal/pipeline"
	"github.com/krishimitra/krishirag/internal/store"
)

// JobKind names one of the scheduled reindex job types.
type JobKind string

const (
	JobFull        JobKind = "full"
	JobIncremental JobKind = "incremental"
	JobMaintenance JobKind = "maintenance"
)

// Config carries the schedule and retention policy. Zero values fall
// back to the defaults set in New.
type Config struct {
	DataDir           string
	FullWeekday       time.Weekday
	FullHour          int
	IncrementalHour   int
	MaintenanceDay    int
	MaintenanceHour   int
	RetentionDays     int
	IncrementalWindow time.Duration
	PollInterval      time.Duration
}

// Scheduler runs full, incremental and maintenance jobs on a single
// background polling loop. Only one job runs at a time; an overlapping
// trigger is skipped and logged, never queued behind a running job.
type Scheduler struct {
	pipeline *pipeline.Pipeline
	store    *store.Store
	state    *StateFile
	runLog   *RunLog
	logger   *log.Logger
	cfg      Config

	jobMu sync.Mutex

	mu        sync.Mutex
	current   JobKind
	lastFired map[JobKind]time.Time
	runState  RunState
}

func New(p *pipeline.Pipeline, st *store.Store, cfg Config, logger *log.Logger) (*Scheduler, error) {
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.FullHour == 0 {
		cfg.FullHour = 2
	}
	if cfg.IncrementalHour == 0 {
		cfg.IncrementalHour = 6
	}
	if cfg.MaintenanceDay == 0 {
		cfg.MaintenanceDay = 1
	}
	if cfg.MaintenanceHour == 0 {
		cfg.MaintenanceHour = 3
	}
	if cfg.RetentionDays == 0 {
		cfg.RetentionDays = 90
	}
	if cfg.IncrementalWindow == 0 {
		cfg.IncrementalWindow = 14 * 24 * time.Hour
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = time.Minute
	}

	stateFile := NewStateFile(filepath.Join(cfg.DataDir, "reindex_state.json"))
	runState, err := stateFile.Load()
	if err != nil {
		return nil, err
	}

	return &Scheduler{
		pipeline:  p,
		store:     st,
		state:     stateFile,
		runLog:    NewRunLog(filepath.Join(cfg.DataDir, "logs")),
		logger:    logger,
		cfg:       cfg,
		lastFired: make(map[JobKind]time.Time),
		runState:  runState,
	}, nil
}

// Start runs the polling loop until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Printf("scheduler started: full %s %02d:00, incremental daily %02d:00, maintenance day %d %02d:00",
		s.cfg.FullWeekday, s.cfg.FullHour, s.cfg.IncrementalHour, s.cfg.MaintenanceDay, s.cfg.MaintenanceHour)

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Printf("scheduler stopped")
			return
		case now := <-ticker.C:
			for _, kind := range s.dueJobs(now) {
				if err := s.runJob(ctx, kind); err != nil {
					s.logger.Printf("%s job failed: %v", kind, err)
				}
			}
		}
	}
}

// dueJobs returns the jobs whose scheduled window matches now, at most
// once per window.
func (s *Scheduler) dueJobs(now time.Time) []JobKind {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []JobKind

	if now.Weekday() == s.cfg.FullWeekday && now.Hour() == s.cfg.FullHour && !firedToday(s.lastFired[JobFull], now) {
		s.lastFired[JobFull] = now
		due = append(due, JobFull)
	}
	if now.Hour() == s.cfg.IncrementalHour && !firedToday(s.lastFired[JobIncremental], now) {
		s.lastFired[JobIncremental] = now
		due = append(due, JobIncremental)
	}
	if now.Day() == s.cfg.MaintenanceDay && now.Hour() == s.cfg.MaintenanceHour && !firedToday(s.lastFired[JobMaintenance], now) {
		s.lastFired[JobMaintenance] = now
		due = append(due, JobMaintenance)
	}

	return due
}

func firedToday(last, now time.Time) bool {
	return !last.IsZero() && last.Year() == now.Year() && last.YearDay() == now.YearDay()
}

// ForceReindex runs a job synchronously on operator request. It fails
// immediately when another job is already running.
func (s *Scheduler) ForceReindex(ctx context.Context, kind JobKind) error {
	switch kind {
	case JobFull, JobIncremental, JobMaintenance:
	default:
		return fmt.Errorf("unknown job kind %q", kind)
	}
	return s.runJob(ctx, kind)
}

// Status reports the current job (empty when idle) and the persisted
// run state.
func (s *Scheduler) Status() (JobKind, RunState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.runState
}

func (s *Scheduler) runJob(ctx context.Context, kind JobKind) error {
	if !s.jobMu.TryLock() {
		s.logger.Printf("%s job skipped: another job is running", kind)
		return fmt.Errorf("another job is already running")
	}
	defer s.jobMu.Unlock()

	s.mu.Lock()
	s.current = kind
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.current = ""
		s.mu.Unlock()
	}()

	entry := RunEntry{
		RunID:     uuid.NewString(),
		Kind:      string(kind),
		StartedAt: time.Now(),
	}
	s.logger.Printf("%s job started (run %s)", kind, entry.RunID)

	var (
		stats map[string]int
		err   error
	)
	switch kind {
	case JobFull:
		stats, err = s.runFull(ctx)
	case JobIncremental:
		stats, err = s.runIncremental(ctx)
	case JobMaintenance:
		stats, err = s.runMaintenance()
	}

	entry.DurationMS = time.Since(entry.StartedAt).Milliseconds()
	entry.Stats = stats

	if err != nil {
		entry.Error = err.Error()
		if logErr := s.runLog.AppendError(entry); logErr != nil {
			s.logger.Printf("failed to append error log: %v", logErr)
		}
		return err
	}

	if logErr := s.runLog.Append(entry); logErr != nil {
		s.logger.Printf("failed to append run log: %v", logErr)
	}
	s.logger.Printf("%s job finished in %dms: %v", kind, entry.DurationMS, stats)
	return nil
}

func (s *Scheduler) runFull(ctx context.Context) (map[string]int, error) {
	if err := s.backup(); err != nil {
		return nil, err
	}

	report, err := s.pipeline.IndexGovernmentSources(ctx)
	if err != nil {
		return nil, err
	}

	stats := reportStats(report)
	now := time.Now()

	s.mu.Lock()
	s.runState.LastReindexTime = now
	s.runState.LastFullReindex = now
	s.runState.LastStats = stats
	runState := s.runState
	s.mu.Unlock()

	return stats, s.state.Save(runState)
}

// runIncremental refreshes the high-priority sources. It is a no-op when
// no full reindex completed within the incremental window; the corpus is
// too stale for a partial refresh to be meaningful then.
func (s *Scheduler) runIncremental(ctx context.Context) (map[string]int, error) {
	s.mu.Lock()
	lastFull := s.runState.LastFullReindex
	s.mu.Unlock()

	if lastFull.IsZero() || time.Since(lastFull) > s.cfg.IncrementalWindow {
		s.logger.Printf("incremental skipped: no full reindex within %s", s.cfg.IncrementalWindow)
		return map[string]int{"skipped": 1}, nil
	}

	report, err := s.pipeline.IndexHighPrioritySources(ctx)
	if err != nil {
		return nil, err
	}

	stats := reportStats(report)

	s.mu.Lock()
	s.runState.LastReindexTime = time.Now()
	s.runState.LastStats = stats
	runState := s.runState
	s.mu.Unlock()

	return stats, s.state.Save(runState)
}

func (s *Scheduler) runMaintenance() (map[string]int, error) {
	cutoff := time.Now().AddDate(0, 0, -s.cfg.RetentionDays)
	pruned, err := s.store.PruneOlderThan(cutoff)
	if err != nil {
		return nil, err
	}

	if err := s.backup(); err != nil {
		return nil, err
	}

	return map[string]int{"documents_pruned": pruned}, nil
}

func (s *Scheduler) backup() error {
	dir := filepath.Join(s.cfg.DataDir, "backups")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create backup dir: %w", err)
	}
	dest := filepath.Join(dir, fmt.Sprintf("backup_%s.db", time.Now().Format("20060102_150405")))
	return s.store.Backup(dest)
}

func reportStats(report pipeline.IndexReport) map[string]int {
	return map[string]int{
		"websites_indexed": report.WebsitesIndexed,
		"documents_stored": report.DocumentsStored,
		"schemes_stored":   report.SchemesStored,
	}
}
