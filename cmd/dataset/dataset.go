// Package dataset implements the dataset command.
package dataset

import (
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"timelapse-frames/cmd/features"
	"timelapse-frames/cmd/timestamps"
	"timelapse-frames/internal/conf"
	ftable "timelapse-frames/internal/features"
)

// Output file names inside the processed directory.
const (
	TimestampsFile = "image-timestamps.txt"
	FeaturesFile   = "training-features.txt"
)

// Command creates the dataset command.
func Command(ctx *conf.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "dataset [input] [output]",
		Short: "Turn raw frames into the processed dataset",
		Long: "Write output/" + TimestampsFile + " from the frames in input/raw and\n" +
			"output/" + FeaturesFile + " from input/by-class/{open,closed}.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(ctx.Settings, args[0], args[1])
		},
	}
}

// Run builds both dataset files.
func Run(settings *conf.Settings, input, output string) error {
	log.WithFields(log.Fields{
		"input":  input,
		"output": output,
	}).Info("Making final data set from raw data")

	if err := timestamps.Run(filepath.Join(input, "raw"), filepath.Join(output, TimestampsFile), nil); err != nil {
		return err
	}

	classes := ftable.DefaultClasses(filepath.Join(input, "by-class"))
	return features.Run(settings, classes, filepath.Join(output, FeaturesFile), nil)
}
