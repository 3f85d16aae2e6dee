package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/notes/pkg/adapters/fs"
	"github.com/aretw0/notes/pkg/adapters/memory"
	"github.com/aretw0/notes/pkg/adapters/sqlite"
	"github.com/aretw0/notes/pkg/core"
)

// Open builds and initializes the key-value backend selected by opts.
// The 'uri' argument is adapter-specific: a directory for "fs", a database
// file for "sqlite", ignored for "memory".
func Open(uri string, opts ...Option) (core.KeyValue, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return open(uri, o)
}

func open(uri string, o *options) (core.KeyValue, error) {
	if o.keyValue != nil {
		return o.keyValue, nil
	}

	var kv core.KeyValue
	switch o.adapter {
	case AdapterFS:
		kv = newFS(uri, o)
	case AdapterSQLite:
		db, err := sqlite.Open(uri)
		if err != nil {
			return nil, err
		}
		return db, nil
	case AdapterMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}

	readOnly, _ := o.config["read_only"].(bool)
	if initializer, ok := kv.(core.Initializer); ok && !readOnly {
		if err := initializer.Initialize(context.Background()); err != nil {
			return nil, err
		}
	}
	return kv, nil
}

func newFS(path string, o *options) *fs.KeyValue {
	systemDir, _ := o.config["system_dir"].(string)
	mustExist, _ := o.config["must_exist"].(bool)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))

	if path == "" {
		path = "."
	}
	if o.logger != nil {
		o.logger.Debug("opening fs backend", "path", path, "system_dir", systemDir)
	}

	return fs.New(fs.Config{
		Path:         path,
		SystemDir:    systemDir,
		MustExist:    mustExist,
		Logger:       o.logger,
		ErrorHandler: errorHandler,
	})
}
