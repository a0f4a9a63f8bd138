// Package cmd assembles the timelapse-frames command line.
package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"timelapse-frames/cmd/dataset"
	"timelapse-frames/cmd/features"
	"timelapse-frames/cmd/initlib"
	"timelapse-frames/cmd/predict"
	"timelapse-frames/cmd/sample"
	"timelapse-frames/cmd/timestamps"
	"timelapse-frames/cmd/train"
	"timelapse-frames/internal/conf"
)

// RootCommand creates and returns the root command.
func RootCommand(ctx *conf.Context) *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:   "timelapse-frames",
		Short: "Select and classify usable timelapse frames",
		Long: "Select one frame per day from a timelapse sequence and classify frames\n" +
			"as open or closed from their EXIF exposure metadata.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug output")
	rootCmd.PersistentFlags().String("timezone", "", "Time zone used for day boundaries (default: Local)")
	rootCmd.PersistentFlags().String("tagset", "", "EXIF tag set: minimal, extended")
	if err := ctx.BindFlags(rootCmd.PersistentFlags(), map[string]string{
		"debug":    "debug",
		"timezone": "timezone",
		"tagset":   "features.tagset",
	}); err != nil {
		log.WithError(err).Fatal("Error binding flags")
	}

	rootCmd.AddCommand(
		initlib.Command(),
		timestamps.Command(),
		sample.Command(ctx),
		features.Command(ctx),
		dataset.Command(ctx),
		train.Command(ctx),
		predict.Command(ctx),
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := ctx.ApplyFlags(cmd.Flags()); err != nil {
			return err
		}
		if err := ctx.Load(configFile); err != nil {
			return err
		}
		setupLogging(ctx.Settings.Debug)
		return nil
	}

	return rootCmd
}

func setupLogging(debug bool) {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}
