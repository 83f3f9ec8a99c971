// Package filelock provides advisory file locking, used to guard registry
// read-modify-write cycles against concurrent invocations.
package filelock

import "os"

const lockMode = 0o600

// Lock acquires an exclusive lock on path, creating the file if needed.
// It blocks until the lock is available and returns a function that
// releases it. The lock file itself is left in place.
func Lock(path string) (func() error, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockMode) //nolint:gosec // lock path from trusted source
	if err != nil {
		return nil, err
	}
	if err := lockFile(f); err != nil {
		f.Close()
		return nil, err
	}
	return func() error {
		if err := unlockFile(f); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}, nil
}
