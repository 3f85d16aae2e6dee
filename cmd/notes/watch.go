package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/notes/pkg/adapters/lifecycle"
	"github.com/aretw0/notes/pkg/core"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Report writes to the notes slot made by other processes",
		Long: `Watch prints a line each time another process rewrites the notes slot.
It does not reload anything: the last writer wins.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd, opts)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			events := store.Watch(ctx)
			if err := store.Follow(ctx); err != nil {
				return err
			}

			src := lifecycle.NewSource(events, lifecycle.WithTypes(core.EventExternal))
			if err := src.Start(ctx); err != nil {
				return err
			}

			fmt.Fprintln(cmd.ErrOrStderr(), "Watching for external changes. Press Ctrl+C to stop.")
			for e := range src.Events() {
				fmt.Fprintln(cmd.OutOrStdout(), e.String())
			}
			return nil
		},
	}
}
