package fs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/aretw0/notes/pkg/core"
)

// DefaultSystemDir is the hidden directory holding the slot files.
const DefaultSystemDir = ".notes"

// SlotExt is the extension of every slot file.
const SlotExt = ".json"

var validKey = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// KeyValue implements core.KeyValue on the filesystem.
// Each key is stored as {Path}/{SystemDir}/{key}.json and written atomically.
type KeyValue struct {
	Path   string
	config Config

	mu            sync.RWMutex
	lastWritten   map[string][]byte
	watcherActive bool
	lastExternal  *time.Time
}

// Config holds the configuration for the filesystem backend.
type Config struct {
	Path         string
	SystemDir    string // e.g. ".notes"
	MustExist    bool
	Logger       *slog.Logger
	ErrorHandler func(error) // Called for watcher failures. Optional.
}

// New creates a new filesystem-backed key-value store.
func New(config Config) *KeyValue {
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &KeyValue{
		Path:        config.Path,
		config:      config,
		lastWritten: make(map[string][]byte),
	}
}

// Dir returns the directory holding the slot files.
func (r *KeyValue) Dir() string {
	return filepath.Join(r.Path, r.config.SystemDir)
}

// Initialize creates the data directory.
// With MustExist, the root path has to exist beforehand.
func (r *KeyValue) Initialize(ctx context.Context) error {
	if r.config.MustExist {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("notes path does not exist: %s", r.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("notes path is not a directory: %s", r.Path)
		}
	}

	if err := os.MkdirAll(r.Dir(), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

// Get reads the slot file for key.
func (r *KeyValue) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path, err := r.slotPath(key)
	if err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read slot: %w", err)
	}
	return data, true, nil
}

// Set replaces the slot file for key atomically.
func (r *KeyValue) Set(ctx context.Context, key string, value []byte) error {
	path, err := r.slotPath(key)
	if err != nil {
		return err
	}

	// Recorded before the write so the watcher never mistakes it for a foreign one.
	r.mu.Lock()
	r.lastWritten[key] = bytes.Clone(value)
	r.mu.Unlock()

	if err := replaceSlot(path, value); err != nil {
		return fmt.Errorf("failed to write slot: %w", err)
	}

	r.config.Logger.Debug("slot written", "key", key, "bytes", len(value))
	return nil
}

func (r *KeyValue) slotPath(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(r.Dir(), key+SlotExt), nil
}

// ownWrite reports whether data is exactly what this process last wrote to key.
func (r *KeyValue) ownWrite(key string, data []byte) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	last, ok := r.lastWritten[key]
	return ok && bytes.Equal(last, data)
}

var _ core.KeyValue = (*KeyValue)(nil)
var _ core.Initializer = (*KeyValue)(nil)
var _ core.Watchable = (*KeyValue)(nil)
