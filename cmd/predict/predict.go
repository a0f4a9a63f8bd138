// Package predict implements the predict command.
package predict

import (
	"errors"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"timelapse-frames/cmd/cmdutil"
	"timelapse-frames/internal/classifier"
	"timelapse-frames/internal/conf"
	"timelapse-frames/internal/features"
	"timelapse-frames/internal/predstore"
)

// Command creates the predict command.
func Command(ctx *conf.Context) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "predict [dir]",
		Short: "Classify every frame in a directory as open or closed",
		Long: "Extract EXIF features from every frame in dir, apply a trained model and\n" +
			"write a CSV of file, features and prediction (0=open, 1=closed).",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(ctx.Settings, args[0], output, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output CSV file (default: stdout)")
	cmd.Flags().StringP("model", "m", "", "Trained model file")
	cmd.Flags().String("db", "", "Also store the predictions in this SQLite database")
	ctx.RegisterFlags(cmd.Flags(), map[string]string{
		"model": "model.path",
		"db":    "output.sqlite.path",
	})

	return cmd
}

// Run classifies the frames in dir and writes the prediction table.
func Run(settings *conf.Settings, dir, output string, stdout io.Writer) error {
	if settings.Model.Path == "" {
		return errors.New("no model given, use --model or model.path")
	}

	tags, err := settings.TagSet()
	if err != nil {
		return err
	}

	model, err := classifier.Load(settings.Model.Path)
	if err != nil {
		return err
	}

	table, err := features.BuildPredictionTable(dir, tags, model)
	if err != nil {
		return err
	}

	w, err := cmdutil.Create(output, stdout)
	if err != nil {
		return err
	}
	if err := features.WriteCSV(w, table, features.CSVOptions{File: true}); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	if settings.Output.SQLite.Path == "" {
		return nil
	}

	store, err := predstore.Open(settings.Output.SQLite.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.SaveRun(model.ID.String(), dir, table)
	if err != nil {
		return fmt.Errorf("failed to store predictions: %w", err)
	}

	log.WithFields(log.Fields{
		"run_id": run.ID,
		"db":     settings.Output.SQLite.Path,
		"rows":   len(table.Rows),
	}).Info("Stored predictions")

	return nil
}
