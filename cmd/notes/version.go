package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/notes"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of notes",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "notes version %s\n", notes.Version)
		},
	}
}
