package scheduler

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RunState is the scheduler's persisted memory: when reindexing last
// happened and what it produced. It is read at startup and rewritten at
// the end of every run, so schedules survive process restarts.
type RunState struct {
	LastReindexTime time.Time      `json:"last_reindex_time"`
	LastFullReindex time.Time      `json:"last_full_reindex"`
	LastStats       map[string]int `json:"last_stats"`
}

// StateFile persists RunState as a small JSON file.
type StateFile struct {
	path string
}

func NewStateFile(path string) *StateFile {
	return &StateFile{path: path}
}

// Load reads the persisted state. A missing file yields a zero state,
// not an error.
func (f *StateFile) Load() (RunState, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return RunState{}, nil
	}
	if err != nil {
		return RunState{}, fmt.Errorf("failed to read run state: %w", err)
	}

	var state RunState
	if err := json.Unmarshal(data, &state); err != nil {
		return RunState{}, fmt.Errorf("failed to decode run state: %w", err)
	}
	return state, nil
}

func (f *StateFile) Save(state RunState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode run state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("failed to create state dir: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write run state: %w", err)
	}
	return nil
}

// RunEntry is one line in the dated reindex history logs.
type RunEntry struct {
	RunID      string         `json:"run_id"`
	Kind       string         `json:"kind"`
	StartedAt  time.Time      `json:"started_at"`
	DurationMS int64          `json:"duration_ms"`
	Stats      map[string]int `json:"stats,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// RunLog appends JSON-line entries to per-day history files, one file
// for completed runs and one for failures.
type RunLog struct {
	dir string
}

func NewRunLog(dir string) *RunLog {
	return &RunLog{dir: dir}
}

func (l *RunLog) Append(entry RunEntry) error {
	name := fmt.Sprintf("reindex_%s.log", entry.StartedAt.Format("20060102"))
	return l.appendLine(name, entry)
}

func (l *RunLog) AppendError(entry RunEntry) error {
	name := fmt.Sprintf("errors_%s.log", entry.StartedAt.Format("20060102"))
	return l.appendLine(name, entry)
}

func (l *RunLog) appendLine(name string, entry RunEntry) error {
	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return fmt.Errorf("failed to create log dir: %w", err)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode log entry: %w", err)
	}

	file, err := os.OpenFile(filepath.Join(l.dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write log entry: %w", err)
	}
	return nil
}
