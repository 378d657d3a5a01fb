package workflow

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is created inside the downloads directory while a step runs
const LockFileName = ".ytringtones.lock"

// ErrFolderLocked is returned when another process holds the folder lock
var ErrFolderLocked = errors.New("downloads folder is locked")

// lockFolder takes the cross-process lock on dir without blocking
func lockFolder(dir string) (*flock.Flock, error) {
	lock := flock.New(filepath.Join(dir, LockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", lock.Path(), err)
	}
	if !ok {
		return nil, ErrFolderLocked
	}
	return lock, nil
}
