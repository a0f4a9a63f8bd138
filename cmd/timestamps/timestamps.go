// Package timestamps implements the timestamps command.
package timestamps

import (
	"io"

	"github.com/spf13/cobra"

	"timelapse-frames/cmd/cmdutil"
	tsextract "timelapse-frames/internal/timestamps"
)

// Command creates the timestamps command.
func Command() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "timestamps [dir]",
		Short: "List the capture timestamps of all frames in a directory",
		Long:  "Walk dir recursively and print the timestamp of every pic_<unix>.jpg frame, one per line, ascending.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(args[0], output, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

// Run extracts timestamps from dir and writes them to output.
func Run(dir, output string, stdout io.Writer) error {
	ts, err := tsextract.Extract(dir)
	if err != nil {
		return err
	}

	w, err := cmdutil.Create(output, stdout)
	if err != nil {
		return err
	}
	if err := tsextract.WriteList(w, ts); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
