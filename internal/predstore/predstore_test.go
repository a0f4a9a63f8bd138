package predstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timelapse-frames/internal/features"
)

func TestSaveRun(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "db", "predictions.db"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	exposure, iso := 0.004, 100.0
	closed := features.LabelClosed
	table := &features.Table{
		Columns: []string{"exposure_time", "iso_speed"},
		Target:  features.TargetPrediction,
		Rows: []features.Row{
			{File: "a.jpg", Values: []*float64{&exposure, &iso}, Target: &closed},
			{File: "b.jpg", Values: []*float64{nil, &iso}},
		},
	}

	run, err := s.SaveRun("model-1", "/frames", table)
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)

	runs, err := s.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, "model-1", runs[0].ModelID)
	assert.Equal(t, "/frames", runs[0].SourceDir)

	preds, err := s.Predictions(run.ID)
	require.NoError(t, err)
	require.Len(t, preds, 2)

	assert.Equal(t, "a.jpg", preds[0].File)
	require.NotNil(t, preds[0].Prediction)
	assert.Equal(t, features.LabelClosed, *preds[0].Prediction)
	assert.InDelta(t, 0.004, *preds[0].Features["exposure_time"], 1e-12)

	assert.Nil(t, preds[1].Prediction)
	assert.Nil(t, preds[1].Features["exposure_time"])
	assert.InDelta(t, 100, *preds[1].Features["iso_speed"], 1e-12)
}

func TestPredictionsUnknownRun(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "predictions.db"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	preds, err := s.Predictions("nope")
	require.NoError(t, err)
	assert.Empty(t, preds)
}
