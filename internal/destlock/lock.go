// Package destlock guards a destination file against two writers at once.
//
// The lock is a sibling file named "<dest>.lock" created with O_EXCL, so it
// works across processes as well as goroutines. A lock older than
// StaleThreshold is assumed to belong to a crashed writer and is replaced.
//
// Replacing a stale lock happens under a second O_EXCL file, "<dest>.lock.takeover",
// and the lock's age is checked again once that is held. Two writers that
// both saw the same stale lock therefore cannot both replace it.
package destlock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
)

// StaleThreshold is the age after which an existing lock is ignored.
const StaleThreshold = 2 * time.Minute

// Suffix is appended to the destination path to form the lock path.
const Suffix = ".lock"

const takeoverSuffix = ".takeover"

// ErrLocked means another writer holds the destination.
var ErrLocked = errors.New("destination is locked by another download")

// Lock is a held destination lock.
type Lock struct {
	path string
	file *os.File
}

// Acquire locks dest. The parent directory must already exist.
func Acquire(ctx context.Context, dest string) (*Lock, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lockPath := dest + Suffix
	file, err := create(lockPath)
	if errors.Is(err, os.ErrExist) {
		if stale, _ := isStale(lockPath); !stale {
			return nil, fmt.Errorf("%w: %s", ErrLocked, lockPath)
		}
		file, err = takeOver(lockPath)
		if errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("%w: %s", ErrLocked, lockPath)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("create lock file: %w", err)
	}

	owner := fmt.Sprintf("pid=%d\ntimestamp=%s\n", os.Getpid(), time.Now().UTC().Format(time.RFC3339))
	if _, err := file.WriteString(owner); err != nil {
		file.Close()
		os.Remove(lockPath)
		return nil, fmt.Errorf("write lock file: %w", err)
	}

	return &Lock{path: lockPath, file: file}, nil
}

// takeOver replaces a stale lock and returns the new lock file. An
// os.ErrExist error means another writer holds the lock or is replacing it.
func takeOver(lockPath string) (*os.File, error) {
	guardPath := lockPath + takeoverSuffix
	guard, err := create(guardPath)
	if errors.Is(err, os.ErrExist) {
		// a guard left by a crash mid-takeover
		if stale, _ := isStale(guardPath); !stale {
			return nil, err
		}
		os.Remove(guardPath)
		guard, err = create(guardPath)
	}
	if err != nil {
		return nil, err
	}
	defer func() {
		guard.Close()
		os.Remove(guardPath)
	}()

	// Another writer may have replaced the lock before the guard was taken.
	stale, statErr := isStale(lockPath)
	switch {
	case statErr == nil && !stale:
		return nil, os.ErrExist
	case statErr == nil:
		if err := os.Remove(lockPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	return create(lockPath)
}

func create(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o600)
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Release removes the lock. Calling it more than once is fine.
func (l *Lock) Release() error {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
	if l.path != "" {
		err := os.Remove(l.path)
		l.path = ""
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove lock file: %w", err)
		}
	}
	return nil
}

func isStale(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return time.Since(info.ModTime()) > StaleThreshold, nil
}
