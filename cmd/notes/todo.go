package main

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/aretw0/notes"
)

func newTodoCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todo",
		Short: "Manage the todo items of a note",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add [note-id] [text]",
			Short: "Append a todo item",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return editNote(cmd, opts, args[0], func(n *notes.Note) error {
					n.TodoList = append(n.TodoList, notes.Todo{ID: uuid.NewString(), Text: args[1]})
					return nil
				})
			},
		},
		newTodoMarkCmd(opts, "done", "Mark a todo item as completed", true),
		newTodoMarkCmd(opts, "undo", "Mark a todo item as not completed", false),
		&cobra.Command{
			Use:   "rm [note-id] [todo-id]",
			Short: "Delete a todo item",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return editNote(cmd, opts, args[0], func(n *notes.Note) error {
					i, err := findTodo(*n, args[1])
					if err != nil {
						return err
					}
					n.TodoList = slices.Delete(n.TodoList, i, i+1)
					return nil
				})
			},
		},
	)

	return cmd
}

func newTodoMarkCmd(opts *rootOptions, use, short string, completed bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [note-id] [todo-id]",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editNote(cmd, opts, args[0], func(n *notes.Note) error {
				i, err := findTodo(*n, args[1])
				if err != nil {
					return err
				}
				n.TodoList[i].Completed = completed
				return nil
			})
		},
	}
}

func findTodo(n notes.Note, todoID string) (int, error) {
	i := slices.IndexFunc(n.TodoList, func(t notes.Todo) bool { return t.ID == todoID })
	if i < 0 {
		return -1, fmt.Errorf("todo %s not found in note %s", todoID, n.ID)
	}
	return i, nil
}
