// Package train implements the train command.
package train

import (
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"timelapse-frames/internal/classifier"
	"timelapse-frames/internal/conf"
	"timelapse-frames/internal/features"
)

// Result reports a finished training run.
type Result struct {
	Model    *classifier.Model
	Path     string
	Train    int
	Test     int
	TrainAcc float64
	TestAcc  float64
}

// Command creates the train command.
func Command(ctx *conf.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train [features.csv]",
		Short: "Fit the open/closed classifier on a feature table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := Run(ctx.Settings, args[0], time.Now())
			if err != nil {
				return err
			}
			Report(cmd.OutOrStdout(), res)
			return nil
		},
	}

	cmd.Flags().StringP("model", "m", "", "Where to write the model (default: models/<timestamp>_logreg-clr.gob)")
	cmd.Flags().Float64("test-fraction", 0, "Fraction of rows held out for testing (default 0.25)")
	cmd.Flags().Int64("seed", 0, "Seed of the train/test shuffle")
	ctx.RegisterFlags(cmd.Flags(), map[string]string{
		"model":         "model.path",
		"test-fraction": "train.testfraction",
		"seed":          "train.seed",
	})

	return cmd
}

// Run loads the feature table at path, splits it, fits a model on the
// training part and saves it.
func Run(settings *conf.Settings, path string, now time.Time) (*Result, error) {
	tags, err := settings.TagSet()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	table, err := features.ReadCSV(f)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	columns := tags.Names()
	X, y, err := table.TrainingSet(columns)
	if err != nil {
		return nil, err
	}

	split, err := classifier.TrainTestSplit(X, y, settings.Train.TestFraction, settings.Train.Seed)
	if err != nil {
		return nil, err
	}

	opts := classifier.TrainOptions{
		MaxIter:   settings.Train.MaxIter,
		L2:        settings.Train.L2,
		Tolerance: classifier.DefaultTrainOptions().Tolerance,
	}
	model, err := classifier.Fit(columns, split.XTrain, split.YTrain, opts)
	if err != nil {
		return nil, err
	}

	res := &Result{Model: model, Train: len(split.XTrain), Test: len(split.XTest)}
	if res.TrainAcc, err = model.Score(split.XTrain, split.YTrain); err != nil {
		return nil, err
	}
	if res.TestAcc, err = model.Score(split.XTest, split.YTest); err != nil {
		return nil, err
	}

	res.Path = settings.Model.Path
	if res.Path == "" {
		res.Path = classifier.DefaultPath(settings.Model.Dir, now)
	}
	if err := classifier.Save(model, res.Path); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"model_id":  model.ID,
		"path":      res.Path,
		"train_acc": res.TrainAcc,
		"test_acc":  res.TestAcc,
	}).Info("Saved classifier")

	return res, nil
}

// Report prints a summary of res.
func Report(w io.Writer, res *Result) {
	fmt.Fprintf(w, "Model:          %s\n", res.Path)
	fmt.Fprintf(w, "Model ID:       %s\n", res.Model.ID)
	fmt.Fprintf(w, "Features:       %v\n", res.Model.FeatureNames)
	fmt.Fprintf(w, "Train accuracy: %.3f (%d rows)\n", res.TrainAcc, res.Train)
	fmt.Fprintf(w, "Test accuracy:  %.3f (%d rows)\n", res.TestAcc, res.Test)
}
