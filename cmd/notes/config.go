package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/notes"
)

// fileConfig is the optional YAML configuration file.
//
//	adapter: sqlite
//	database: /home/me/notes.db
type fileConfig struct {
	Adapter  string `yaml:"adapter"`
	Database string `yaml:"database"`
	ReadOnly bool   `yaml:"read_only"`
}

func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// resolveDir returns the --dir flag, or the nearest parent holding the system
// dir, or the current directory.
func resolveDir(opts *rootOptions) (string, error) {
	if opts.dir != "" {
		return opts.dir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	if root, err := notes.FindRoot(wd, opts.systemDir); err == nil {
		return root, nil
	}
	return wd, nil
}

// openStore builds the store from flags, falling back to the config file for
// anything not set explicitly on the command line.
func openStore(cmd *cobra.Command, opts *rootOptions) (*notes.Store, error) {
	dir, err := resolveDir(opts)
	if err != nil {
		return nil, err
	}

	configPath := opts.configPath
	if configPath == "" {
		configPath = filepath.Join(dir, opts.systemDir, "config.yaml")
	}
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	adapter := opts.adapter
	if !cmd.Flags().Changed("adapter") && cfg.Adapter != "" {
		adapter = cfg.Adapter
	}

	uri := dir
	if adapter == notes.AdapterSQLite {
		uri = cfg.Database
		if uri == "" {
			uri = filepath.Join(dir, opts.systemDir, "notes.db")
		}
		if err := os.MkdirAll(filepath.Dir(uri), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	slog.Debug("opening store", "adapter", adapter, "uri", uri)
	return notes.New(uri,
		notes.WithAdapter(adapter),
		notes.WithSystemDir(opts.systemDir),
		notes.WithReadOnly(cfg.ReadOnly),
		notes.WithLogger(slog.Default()),
	)
}
