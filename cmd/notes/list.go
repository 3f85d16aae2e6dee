package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/notes"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd, opts)
			if err != nil {
				return err
			}
			defer store.Close()

			all := store.Notes()
			if asJSON {
				return writeJSON(cmd, all)
			}

			for _, n := range all {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t(%d/%d)\n", n.ID, n.Title, completed(n), len(n.TodoList))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show a note and its todo items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd, opts)
			if err != nil {
				return err
			}
			defer store.Close()

			n, ok := store.GetNoteByID(args[0])
			if !ok {
				return fmt.Errorf("note not found: %s", args[0])
			}
			if asJSON {
				return writeJSON(cmd, n)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", n.Title)
			for _, t := range n.TodoList {
				mark := " "
				if t.Completed {
					mark = "x"
				}
				fmt.Fprintf(out, "[%s] %s %s\n", mark, t.ID, t.Text)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

func completed(n notes.Note) int {
	done := 0
	for _, t := range n.TodoList {
		if t.Completed {
			done++
		}
	}
	return done
}

func writeJSON(cmd *cobra.Command, v any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
