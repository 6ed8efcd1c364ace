// Package searchlock keeps a single search in flight per LEADGENIUS_HOME.
package searchlock

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

// ErrBusy is returned when another process holds the lock.
var ErrBusy = errors.New("another search is already running")

// Holder describes the process holding the lock, for diagnostics.
type Holder struct {
	PID        int       `json:"pid"`
	Query      string    `json:"query"`
	AcquiredAt time.Time `json:"acquired_at"`
}

// BusyError reports lock contention. Holder is the zero value when the
// lock file could not be read.
type BusyError struct {
	Holder Holder
}

func (e *BusyError) Error() string {
	if e.Holder.PID == 0 {
		return ErrBusy.Error()
	}
	return fmt.Sprintf("%s (pid %d, query %q, started %s)",
		ErrBusy, e.Holder.PID, e.Holder.Query, e.Holder.AcquiredAt.Format(time.RFC3339))
}

// Is reports ErrBusy as a match.
func (e *BusyError) Is(target error) bool {
	return target == ErrBusy
}

// Lock is an acquired search lock.
type Lock struct {
	fl       *flock.Flock
	metaPath string
	lastPath string
}

// Acquire takes the lock at path without blocking. If it is held elsewhere
// the returned error is a *BusyError.
func Acquire(path, query string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	metaPath := path + ".json"
	if !ok {
		return nil, &BusyError{Holder: readHolder(metaPath)}
	}

	// Metadata lives beside the lock file so it can be read while held.
	holder := Holder{PID: os.Getpid(), Query: query, AcquiredAt: time.Now().UTC()}
	data, err := json.MarshalIndent(holder, "", "  ")
	if err == nil {
		_ = os.WriteFile(metaPath, data, 0644)
	}

	return &Lock{fl: fl, metaPath: metaPath, lastPath: path + ".last"}, nil
}

// LastRequest returns when a model request last started under this lock,
// in this or an earlier process. It is the zero time if none was recorded.
func (l *Lock) LastRequest() time.Time {
	data, err := os.ReadFile(l.lastPath)
	if err != nil {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(string(data)))
	if err != nil {
		return time.Time{}
	}
	return t
}

// RecordRequest stores at as the last request start. Unlike the holder
// metadata it survives Release.
func (l *Lock) RecordRequest(at time.Time) error {
	if err := os.WriteFile(l.lastPath, []byte(at.UTC().Format(time.RFC3339Nano)+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to record request time: %w", err)
	}
	return nil
}

// Release unlocks and removes the metadata file. It is safe to call more
// than once.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	_ = os.Remove(l.metaPath)
	err := l.fl.Unlock()
	l.fl = nil
	if err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}

func readHolder(path string) Holder {
	var h Holder
	data, err := os.ReadFile(path)
	if err != nil {
		return h
	}
	_ = json.Unmarshal(data, &h)
	return h
}
