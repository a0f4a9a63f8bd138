// Package initlib implements the init command.
package initlib

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"timelapse-frames/internal/library"
)

// Command creates the init command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: "Create the project directory structure and a default config",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := ""
			if len(args) == 1 {
				root = args[0]
			} else {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("error getting current directory: %w", err)
				}
				root = wd
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Initializing project at: %s\n\n", root)

			entries, err := library.Init(library.Layout{Root: root})
			for _, e := range entries {
				rel, _ := filepath.Rel(root, e.Path)
				if e.Created {
					fmt.Fprintf(out, "✓ %s - %s\n", rel, e.Desc)
				} else {
					fmt.Fprintf(out, "⊘ %s (already exists)\n", rel)
				}
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(out, "\nNext steps:")
			fmt.Fprintln(out, "  1. Copy frames to data/raw/ and labeled samples to data/by-class/{open,closed}/")
			fmt.Fprintln(out, "  2. Run: timelapse-frames dataset data data/processed")
			fmt.Fprintln(out, "  3. Run: timelapse-frames train data/processed/training-features.txt")
			return nil
		},
	}
}
