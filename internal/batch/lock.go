package batch

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// LockFileName is the zero-byte marker signalling an active run.
const LockFileName = "batch_running.lock"

// ErrRunActive is returned when a run lock is already present.
var ErrRunActive = errors.New("batch process already running")

// RunLock is an advisory, presence-based lock. It does not guard against
// two processes creating it at the same instant.
type RunLock struct {
	fs   afero.Fs
	path string
}

// NewRunLock creates a lock marker inside dir.
func NewRunLock(fs afero.Fs, dir string) *RunLock {
	return &RunLock{fs: fs, path: filepath.Join(dir, LockFileName)}
}

// Path returns the marker location.
func (l *RunLock) Path() string {
	return l.path
}

// IsHeld reports whether the marker exists.
func (l *RunLock) IsHeld() bool {
	ok, err := afero.Exists(l.fs, l.path)
	return err == nil && ok
}

// Acquire creates the marker. It fails with ErrRunActive if it exists.
func (l *RunLock) Acquire() error {
	if err := l.fs.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return err
	}
	f, err := l.fs.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) || errors.Is(err, os.ErrExist) {
			return ErrRunActive
		}
		return err
	}
	return f.Close()
}

// Release removes the marker. Releasing an absent lock is not an error.
func (l *RunLock) Release() error {
	if err := l.fs.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
