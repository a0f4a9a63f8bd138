// Package features implements the features command.
package features

import (
	"errors"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"timelapse-frames/cmd/cmdutil"
	"timelapse-frames/internal/conf"
	ftable "timelapse-frames/internal/features"
)

// Command creates the features command.
func Command(ctx *conf.Context) *cobra.Command {
	var (
		output  string
		classes []string
	)

	cmd := &cobra.Command{
		Use:   "features [by-class dir]",
		Short: "Build a labeled EXIF feature table",
		Long: "Extract EXIF features from labeled frame directories and write them as CSV.\n" +
			"Without --class, the open/ and closed/ subdirectories of the given directory are used.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dirs, err := Classes(args, classes)
			if err != nil {
				return err
			}
			return Run(ctx.Settings, dirs, output, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output CSV file (default: stdout)")
	cmd.Flags().StringArrayVar(&classes, "class", nil, "Labeled directory as DIR=open|closed (repeatable)")

	return cmd
}

// Classes resolves the labeled directories from the positional root or
// the --class values.
func Classes(args, classes []string) ([]ftable.LabeledDir, error) {
	var dirs []ftable.LabeledDir
	if len(args) == 1 {
		dirs = ftable.DefaultClasses(args[0])
	}
	for _, c := range classes {
		d, err := ftable.ParseLabeledDir(c)
		if err != nil {
			return nil, err
		}
		dirs = append(dirs, d)
	}
	if len(dirs) == 0 {
		return nil, errors.New("give a by-class directory or at least one --class")
	}
	return dirs, nil
}

// Run builds the training table for dirs and writes it to output.
func Run(settings *conf.Settings, dirs []ftable.LabeledDir, output string, stdout io.Writer) error {
	tags, err := settings.TagSet()
	if err != nil {
		return err
	}

	table, err := ftable.BuildTrainingTable(dirs, tags)
	if err != nil {
		return err
	}

	w, err := cmdutil.Create(output, stdout)
	if err != nil {
		return err
	}
	if err := ftable.WriteCSV(w, table, ftable.CSVOptions{}); err != nil {
		w.Close()
		return err
	}

	counts := table.ClassCounts()
	log.WithFields(log.Fields{
		"rows":   len(table.Rows),
		"open":   counts[ftable.LabelOpen],
		"closed": counts[ftable.LabelClosed],
	}).Info("Wrote feature table")

	return w.Close()
}
