package storage

import (
	"os"
	"syscall"
)

// FileLock is an exclusive flock on a file, used to serialize
// read-modify-write cycles of state files between kvview processes.
type FileLock struct {
	path string
	file *os.File
}

// NewFileLock creates a lock on path. The file is created on Lock.
func NewFileLock(path string) *FileLock {
	return &FileLock{path: path}
}

// Lock blocks until the lock is held.
func (l *FileLock) Lock() error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return err
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		f.Close()
		return err
	}
	l.file = f
	return nil
}

// Unlock releases the lock. Unlocking an unlocked FileLock is a no-op.
func (l *FileLock) Unlock() error {
	if l.file == nil {
		return nil
	}
	f := l.file
	l.file = nil
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_UN); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WithLock runs fn while holding an exclusive lock on path.
func WithLock(path string, fn func() error) error {
	l := NewFileLock(path)
	if err := l.Lock(); err != nil {
		return err
	}
	defer l.Unlock()
	return fn()
}
