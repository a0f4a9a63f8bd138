// Package features turns EXIF records into labeled feature tables for
// training and into prediction tables for inference.
package features

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"

	log "github.com/sirupsen/logrus"

	"timelapse-frames/internal/exifextract"
	"timelapse-frames/internal/exiftags"
)

// Labels of the two frame classes.
const (
	LabelOpen   = 0
	LabelClosed = 1
)

// Target column names.
const (
	TargetLabel      = "label"
	TargetPrediction = "prediction"
)

var (
	// ErrEmptyDataset is returned when a training table has no usable rows
	// for a required class.
	ErrEmptyDataset = errors.New("empty dataset")

	ErrInvalidLabel = errors.New("label must be 0 or 1")
)

// FeatureMismatchError reports a classifier whose expected feature columns
// differ from the columns a table provides.
type FeatureMismatchError struct {
	Want []string
	Got  []string
}

func (e *FeatureMismatchError) Error() string {
	return fmt.Sprintf("feature mismatch: classifier expects %v, table provides %v", e.Want, e.Got)
}

// LabeledDir is a directory of frames that all belong to one class.
type LabeledDir struct {
	Dir   string
	Label int
}

// DefaultClasses returns the conventional open/ and closed/ subdirectories of root.
func DefaultClasses(root string) []LabeledDir {
	return []LabeledDir{
		{Dir: filepath.Join(root, "open"), Label: LabelOpen},
		{Dir: filepath.Join(root, "closed"), Label: LabelClosed},
	}
}

// Row is one image in a feature table. Values are aligned with the table's
// Columns; a nil value is a missing tag. Target is nil when no label or
// prediction is known.
type Row struct {
	File   string
	Values []*float64
	Target *int
}

// Table is an ordered feature table.
type Table struct {
	Columns []string
	Target  string
	Rows    []Row
}

// Predictor is a fitted binary classifier.
type Predictor interface {
	// Features returns the feature columns the classifier was trained on, in order.
	Features() []string
	Predict(X [][]float64) ([]int, error)
}

// BuildTrainingTable extracts tags from every labeled directory and
// concatenates the records in the order the directories are given. A missing
// directory contributes no records.
func BuildTrainingTable(classes []LabeledDir, tags exiftags.TagSet) (*Table, error) {
	t := &Table{Columns: tags.Names(), Target: TargetLabel}

	for _, c := range classes {
		if c.Label != LabelOpen && c.Label != LabelClosed {
			return nil, fmt.Errorf("%s: %w: %d", c.Dir, ErrInvalidLabel, c.Label)
		}

		records, err := exifextract.Extract(c.Dir, tags)
		if errors.Is(err, fs.ErrNotExist) {
			log.WithField("dir", c.Dir).Warn("Class directory does not exist")
			continue
		}
		if err != nil {
			return nil, err
		}

		for _, rec := range records {
			label := c.Label
			t.Rows = append(t.Rows, newRow(rec, t.Columns, &label))
		}

		log.WithFields(log.Fields{
			"dir":   c.Dir,
			"label": c.Label,
			"rows":  len(records),
		}).Debug("Added class to training table")
	}

	if len(t.Rows) == 0 {
		return nil, fmt.Errorf("%w: no images with EXIF data in %d class directories", ErrEmptyDataset, len(classes))
	}

	return t, nil
}

// BuildPredictionTable extracts tags from dir and attaches the classifier's
// prediction to every row whose features are complete.
func BuildPredictionTable(dir string, tags exiftags.TagSet, clf Predictor) (*Table, error) {
	columns := tags.Names()
	if want := clf.Features(); !slices.Equal(want, columns) {
		return nil, &FeatureMismatchError{Want: want, Got: columns}
	}

	records, err := exifextract.Extract(dir, tags)
	if err != nil {
		return nil, err
	}

	t := &Table{Columns: columns, Target: TargetPrediction}
	for _, rec := range records {
		t.Rows = append(t.Rows, newRow(rec, columns, nil))
	}

	X, idx, err := t.Matrix(columns)
	if err != nil {
		return nil, err
	}
	if len(X) == 0 {
		return t, nil
	}

	pred, err := clf.Predict(X)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	if len(pred) != len(X) {
		return nil, fmt.Errorf("predict: got %d predictions for %d rows", len(pred), len(X))
	}

	for i, p := range pred {
		t.Rows[idx[i]].Target = &p
	}

	log.WithFields(log.Fields{
		"dir":        dir,
		"rows":       len(t.Rows),
		"predicted":  len(pred),
		"incomplete": len(t.Rows) - len(pred),
	}).Info("Built prediction table")

	return t, nil
}

func newRow(rec exifextract.Record, columns []string, target *int) Row {
	values := make([]*float64, len(columns))
	for i, c := range columns {
		values[i] = rec.Values[c]
	}
	return Row{File: rec.Path, Values: values, Target: target}
}

// Matrix returns the values of columns for every row that has all of them,
// together with the indices of those rows in t.Rows.
func (t *Table) Matrix(columns []string) ([][]float64, []int, error) {
	pos := make([]int, len(columns))
	for i, c := range columns {
		pos[i] = slices.Index(t.Columns, c)
		if pos[i] < 0 {
			return nil, nil, &FeatureMismatchError{Want: columns, Got: t.Columns}
		}
	}

	var (
		X   [][]float64
		idx []int
	)
rows:
	for r, row := range t.Rows {
		x := make([]float64, len(columns))
		for i, p := range pos {
			if p >= len(row.Values) || row.Values[p] == nil {
				continue rows
			}
			x[i] = *row.Values[p]
		}
		X = append(X, x)
		idx = append(idx, r)
	}
	return X, idx, nil
}

// TrainingSet returns the complete rows of a labeled table as a feature
// matrix and label vector. Both classes must be represented.
func (t *Table) TrainingSet(columns []string) ([][]float64, []int, error) {
	X, idx, err := t.Matrix(columns)
	if err != nil {
		return nil, nil, err
	}

	y := make([]int, 0, len(idx))
	counts := map[int]int{}
	for _, r := range idx {
		row := t.Rows[r]
		if row.Target == nil {
			return nil, nil, fmt.Errorf("%s: %w: missing label", row.File, ErrInvalidLabel)
		}
		label := *row.Target
		if label != LabelOpen && label != LabelClosed {
			return nil, nil, fmt.Errorf("%s: %w: %d", row.File, ErrInvalidLabel, label)
		}
		y = append(y, label)
		counts[label]++
	}

	if dropped := len(t.Rows) - len(idx); dropped > 0 {
		log.WithField("rows", dropped).Warn("Dropped rows with missing features")
	}

	for _, label := range []int{LabelOpen, LabelClosed} {
		if counts[label] == 0 {
			return nil, nil, fmt.Errorf("%w: no complete rows with label %d", ErrEmptyDataset, label)
		}
	}

	return X, y, nil
}

// ClassCounts returns the number of rows per target value.
func (t *Table) ClassCounts() map[int]int {
	counts := map[int]int{}
	for _, row := range t.Rows {
		if row.Target != nil {
			counts[*row.Target]++
		}
	}
	return counts
}
