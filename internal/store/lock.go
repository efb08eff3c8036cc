package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	lockWait = 5 * time.Second
	lockPoll = 10 * time.Millisecond
)

// acquireFileLock locks the sidecar file next to path. Readers share the
// lock; writers hold it alone. Other ghopen processes are polled for until
// lockWait runs out.
func acquireFileLock(path string, exclusive bool) (*os.File, error) {
	lockPath := path + ".lock"
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}

	deadline := time.Now().Add(lockWait)
	for {
		busy, err := tryLock(f, exclusive)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("lock %s: %w", lockPath, err)
		}
		if !busy {
			return f, nil
		}
		if time.Now().After(deadline) {
			_ = f.Close()
			return nil, fmt.Errorf("lock %s: still held after %v", lockPath, lockWait)
		}
		time.Sleep(lockPoll)
	}
}

func releaseFileLock(f *os.File) {
	if f == nil {
		return
	}
	unlock(f)
	_ = f.Close()
}
