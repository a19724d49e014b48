// Package guard keeps a single editor instance running per base directory.
//
// The marker file holds the PID of the running instance, but existence of the
// file is not what blocks a second launch: the running instance holds an
// exclusive OS advisory lock on it (flock on Unix, LockFileEx on Windows).
// The OS drops the lock when the process dies, so a marker left behind by a
// crash is taken over by the next launch instead of blocking it forever.
package guard

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/process"

	"workorder/internal/model"
)

// errLocked is returned by lockFile when another process holds the lock.
var errLocked = errors.New("lock held by another process")

const maxAttempts = 3

// Guard is a held instance lock. It must be released with Release.
type Guard struct {
	path string
	file *os.File
}

// Acquire takes the instance lock at path and records the current PID in it.
// It returns model.ErrAlreadyRunning when another live instance holds the lock.
func Acquire(path string) (*Guard, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create lock directory: %w", model.ErrIO, err)
	}

	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		prev := readPID(path)

		f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
		if err != nil {
			return nil, fmt.Errorf("%w: open lock file: %w", model.ErrIO, err)
		}

		if err := lockFile(f); err != nil {
			f.Close()
			if errors.Is(err, errLocked) {
				return nil, fmt.Errorf("%w (%s)", model.ErrAlreadyRunning, describe(prev))
			}
			return nil, fmt.Errorf("%w: lock %s: %w", model.ErrIO, path, err)
		}

		// The previous holder may have removed the file between our open and
		// lock; the lock is then on an orphaned inode.
		if !samePath(f, path) {
			unlockFile(f)
			f.Close()
			lastErr = fmt.Errorf("lock file %s replaced while locking", path)
			continue
		}

		if prev > 0 && prev != os.Getpid() {
			log.Printf("Taking over instance marker %s left by %s", path, describe(prev))
		}

		if err := writePID(f); err != nil {
			unlockFile(f)
			f.Close()
			return nil, fmt.Errorf("%w: write pid: %w", model.ErrIO, err)
		}
		return &Guard{path: path, file: f}, nil
	}
	return nil, fmt.Errorf("%w: %w", model.ErrIO, lastErr)
}

// Path returns the marker file location.
func (g *Guard) Path() string {
	return g.path
}

// Release drops the lock and deletes the marker file. It is safe to call more
// than once.
func (g *Guard) Release() error {
	if g == nil || g.file == nil {
		return nil
	}
	err := release(g.file, g.path)
	g.file = nil
	if err != nil {
		return fmt.Errorf("failed to release instance lock: %w", err)
	}
	return nil
}

func writePID(f *os.File) error {
	if err := f.Truncate(0); err != nil {
		return err
	}
	if _, err := f.WriteAt([]byte(strconv.Itoa(os.Getpid())), 0); err != nil {
		return err
	}
	return f.Sync()
}

// readPID returns the PID recorded in the marker, or 0.
func readPID(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0
	}
	return pid
}

func samePath(f *os.File, path string) bool {
	held, err := f.Stat()
	if err != nil {
		return false
	}
	current, err := os.Stat(path)
	if err != nil {
		return false
	}
	return os.SameFile(held, current)
}

// describe renders a PID with its liveness and process name for messages.
func describe(pid int) string {
	if pid <= 0 {
		return "pid unknown"
	}
	alive, err := process.PidExists(int32(pid))
	if err != nil {
		return fmt.Sprintf("pid %d", pid)
	}
	if !alive {
		return fmt.Sprintf("pid %d, no longer running", pid)
	}
	if p, err := process.NewProcess(int32(pid)); err == nil {
		if name, err := p.Name(); err == nil && name != "" {
			return fmt.Sprintf("pid %d, %s", pid, name)
		}
	}
	return fmt.Sprintf("pid %d", pid)
}
