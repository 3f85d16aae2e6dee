package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// TempFilePrefix names the scratch files a slot is staged in before it
	// replaces the previous value. The watcher ignores them.
	TempFilePrefix = "notes-tmp-"

	slotPerm = 0644
)

// replaceSlot swaps the slot file at path for data in one rename, so a reader
// sees either the previous collection or the new one, never a partial write.
// The directory is synced afterwards so the rename survives a crash.
func replaceSlot(path string, data []byte) (err error) {
	dir := filepath.Dir(path)

	staged, err := os.CreateTemp(dir, TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to stage slot: %w", err)
	}
	stagedName := staged.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(stagedName)
		}
	}()

	_, err = staged.Write(data)
	if err == nil {
		err = staged.Sync()
	}
	if closeErr := staged.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to stage slot: %w", err)
	}

	if err = os.Chmod(stagedName, slotPerm); err != nil {
		return fmt.Errorf("failed to stage slot: %w", err)
	}
	if err = os.Rename(stagedName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}

	return syncDir(dir)
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	// Some platforms (Windows) cannot fsync a directory handle.
	if err := d.Sync(); err != nil && !errors.Is(err, os.ErrInvalid) && !errors.Is(err, os.ErrPermission) {
		return fmt.Errorf("failed to sync %s: %w", dir, err)
	}
	return nil
}

func isTempFile(name string) bool {
	return strings.HasPrefix(filepath.Base(name), TempFilePrefix)
}
