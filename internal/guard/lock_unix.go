//go:build !windows

package guard

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

func lockFile(f *os.File) error {
	err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	if errors.Is(err, unix.EWOULDBLOCK) {
		return errLocked
	}
	return err
}

func unlockFile(f *os.File) {
	_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
}

// release removes the marker while still holding the lock, so a process
// waiting on the old inode notices the replacement in Acquire.
func release(f *os.File, path string) error {
	rmErr := os.Remove(path)
	if errors.Is(rmErr, os.ErrNotExist) {
		rmErr = nil
	}
	unlockFile(f)
	if err := f.Close(); err != nil {
		return err
	}
	return rmErr
}
