package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	verbose    bool
	adapter    string
	dir        string
	configPath string
	systemDir  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Notes with todo lists, kept in a local key-value slot",
		Long: `notes manages a list of notes, each holding todo items.
Every change rewrites the whole collection to a single storage slot
(a JSON file under .notes/ by default, or a SQLite database).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}

			handlerOpts := &slog.HandlerOptions{
				Level: level,
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, handlerOpts))
			slog.SetDefault(logger)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringVar(&opts.adapter, "adapter", "fs", "Storage adapter (fs, sqlite, memory)")
	cmd.PersistentFlags().StringVarP(&opts.dir, "dir", "C", "", "Notes directory (default: nearest parent with .notes, else CWD)")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default: <dir>/.notes/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.systemDir, "system-dir", ".notes", "Hidden directory holding the data")

	cmd.AddCommand(
		newListCmd(opts),
		newShowCmd(opts),
		newAddCmd(opts),
		newUpdateCmd(opts),
		newRemoveCmd(opts),
		newTodoCmd(opts),
		newWatchCmd(opts),
		newVersionCmd(),
	)

	return cmd
}
