package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/aretw0/notes"
)

func newAddCmd(opts *rootOptions) *cobra.Command {
	var (
		id    string
		title string
		todos []string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a note",
		Long:  `Add appends a new note. Without --id a random UUID is assigned.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd, opts)
			if err != nil {
				return err
			}
			defer store.Close()

			if id == "" {
				id = uuid.NewString()
			}
			n := notes.Note{ID: id, Title: title, TodoList: []notes.Todo{}}
			for _, text := range todos {
				n.TodoList = append(n.TodoList, notes.Todo{ID: uuid.NewString(), Text: text})
			}

			if err := store.AddNote(cmd.Context(), n); err != nil {
				return fmt.Errorf("failed to add note: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Note ID (default: random UUID)")
	cmd.Flags().StringVarP(&title, "title", "t", "", "Note title")
	cmd.Flags().StringArrayVar(&todos, "todo", nil, "Initial todo item (repeatable)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newUpdateCmd(opts *rootOptions) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Change the title of a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editNote(cmd, opts, args[0], func(n *notes.Note) error {
				n.Title = title
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newRemoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove [id]",
		Aliases: []string{"rm", "delete"},
		Short:   "Remove a note",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd, opts)
			if err != nil {
				return err
			}
			defer store.Close()

			id := args[0]
			if _, ok := store.GetNoteByID(id); !ok {
				return fmt.Errorf("note not found: %s", id)
			}
			if err := store.RemoveNote(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to remove note: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Note removed: %s\n", id)
			return nil
		},
	}
}

// editNote loads a note, lets fn modify a copy and stores it back as a whole.
func editNote(cmd *cobra.Command, opts *rootOptions, id string, fn func(*notes.Note) error) error {
	store, err := openStore(cmd, opts)
	if err != nil {
		return err
	}
	defer store.Close()

	n, ok := store.GetNoteByID(id)
	if !ok {
		return fmt.Errorf("note not found: %s", id)
	}
	if err := fn(&n); err != nil {
		return err
	}
	if err := store.UpdateNote(cmd.Context(), n); err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Note updated: %s\n", id)
	return nil
}
