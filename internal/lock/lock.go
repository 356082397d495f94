// Package lock serializes journal writers across processes with an advisory
// file lock. The kernel drops the lock when its owner exits, so a crashed
// writer never blocks the next one.
//
// The lock file itself is never removed. Who holds it is recorded in a
// sidecar file next to it, read only for diagnostics.
package lock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/murmur/internal/constants"
	"github.com/julianstephens/murmur/internal/logger"
)

const holderSuffix = ".holder"

var (
	findProcessFunc = ps.FindProcess

	ErrHeld      = errors.New("journal is locked by another process")
	ErrMalformed = errors.New("lock holder file is malformed")
)

// Holder describes the process recorded as the lock owner.
type Holder struct {
	PID        int
	Executable string
	AcquiredAt time.Time
}

// WriterLock guards the journal of one data directory.
type WriterLock struct {
	path       string
	RetryDelay time.Duration
}

func New(dataDir string) *WriterLock {
	return &WriterLock{
		path:       filepath.Join(dataDir, constants.WriterLockfileName),
		RetryDelay: constants.LockRetryDelay,
	}
}

func (l *WriterLock) Path() string {
	return l.path
}

func (l *WriterLock) holderPath() string {
	return l.path + holderSuffix
}

// Lock blocks until the lock is acquired or ctx ends. The returned func
// releases it.
func (l *WriterLock) Lock(ctx context.Context) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	fl := flock.New(l.path)
	ok, err := fl.TryLockContext(ctx, l.RetryDelay)
	if err != nil || !ok {
		if ctxErr := ctx.Err(); ctxErr != nil {
			holder, _ := l.Holder()
			return nil, fmt.Errorf("%w (pid %d): %v", ErrHeld, holder.PID, ctxErr)
		}
		return nil, fmt.Errorf("failed to acquire writer lock: %w", err)
	}

	if err := l.writeHolder(); err != nil {
		logger.Warn("Failed to record writer lock holder", "path", l.holderPath(), "error", err)
	}

	return func() {
		if err := os.Remove(l.holderPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Failed to clear writer lock holder", "path", l.holderPath(), "error", err)
		}
		if err := fl.Unlock(); err != nil {
			logger.Warn("Failed to release writer lock", "path", l.path, "error", err)
		}
	}, nil
}

func (l *WriterLock) writeHolder() error {
	exe, _ := os.Executable()
	content := fmt.Sprintf("%d|%s|%d\n", os.Getpid(), filepath.Base(exe), time.Now().Unix())
	return os.WriteFile(l.holderPath(), []byte(content), 0600)
}

// Held reports whether some process currently holds the lock. It is false
// when the caller itself could take it right now.
func (l *WriterLock) Held() (bool, error) {
	if _, err := os.Stat(l.path); errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	fl := flock.New(l.path)
	ok, err := fl.TryLock()
	if err != nil {
		return false, err
	}
	if ok {
		return false, fl.Unlock()
	}
	return true, nil
}

// Holder reads the recorded owner. When the process is still running its
// executable name comes from the process table rather than the file.
func (l *WriterLock) Holder() (Holder, error) {
	content, err := os.ReadFile(l.holderPath())
	if err != nil {
		return Holder{}, err
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return Holder{}, ErrMalformed
	}
	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid <= 0 {
		return Holder{}, ErrMalformed
	}
	unix, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return Holder{}, ErrMalformed
	}

	h := Holder{PID: pid, Executable: parts[1], AcquiredAt: time.Unix(unix, 0)}
	if process, err := findProcessFunc(pid); err == nil && process != nil {
		h.Executable = process.Executable()
	}
	return h, nil
}
