package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timelapse-frames/internal/conf"
	"timelapse-frames/internal/predstore"
	"timelapse-frames/internal/testutil"
)

// 2021-01-01 12:00:00 UTC
const noon = int64(1609502400)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := RootCommand(conf.NewContext())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// project writes a config, three days of raw frames and labeled training frames.
func project(t *testing.T) (dir, config string) {
	t.Helper()
	dir = t.TempDir()

	config = testutil.WriteFile(t, dir, "config.yaml", []byte("timezone: UTC\nmodel:\n  dir: "+filepath.Join(dir, "models")+"\n"))

	for _, ts := range []int64{
		noon - 3600, noon - 120, noon + 30, noon + 600, // day 1, picks +30
		noon + 86400 + 900, // day 2, nothing within 5 minutes
		noon + 2*86400 - 10, noon + 2*86400 + 10, // day 3, tie goes to the earlier
	} {
		testutil.WriteFile(t, dir, filepath.Join("data", "raw", fmt.Sprintf("pic_%d.jpg", ts)), testutil.OpenFrame(0))
	}
	testutil.WriteFile(t, dir, filepath.Join("data", "raw", "photo1.jpg"), testutil.OpenFrame(0))

	for i := 0; i < 12; i++ {
		testutil.WriteFile(t, dir, filepath.Join("data", "by-class", "open", fmt.Sprintf("pic_%d.jpg", noon+int64(i))), testutil.OpenFrame(i))
		testutil.WriteFile(t, dir, filepath.Join("data", "by-class", "closed", fmt.Sprintf("pic_%d.jpg", noon+int64(i))), testutil.ClosedFrame(i))
	}
	return dir, config
}

func TestDatasetTrainPredict(t *testing.T) {
	dir, config := project(t)
	data := filepath.Join(dir, "data")
	processed := filepath.Join(data, "processed")

	_, err := execute(t, "--config", config, "dataset", data, processed)
	require.NoError(t, err)

	list, err := os.ReadFile(filepath.Join(processed, "image-timestamps.txt"))
	require.NoError(t, err)
	assert.Equal(t, 7, strings.Count(string(list), "\n"))

	table, err := os.ReadFile(filepath.Join(processed, "training-features.txt"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(table)), "\n")
	require.Len(t, lines, 25)
	assert.Equal(t, "exposure_time,shutter_speed,brightness,iso_speed,label", lines[0])
	assert.True(t, strings.HasSuffix(lines[1], ",0"))
	assert.True(t, strings.HasSuffix(lines[24], ",1"))

	model := filepath.Join(dir, "models", "clf.gob")
	out, err := execute(t, "--config", config, "train", filepath.Join(processed, "training-features.txt"), "--model", model)
	require.NoError(t, err)
	assert.Contains(t, out, "Test accuracy")
	assert.FileExists(t, model)

	db := filepath.Join(dir, "predictions.db")
	pred := filepath.Join(processed, "predictions.csv")
	_, err = execute(t, "--config", config, "predict", filepath.Join(data, "by-class", "closed"), "--model", model, "-o", pred, "--db", db)
	require.NoError(t, err)

	csv, err := os.ReadFile(pred)
	require.NoError(t, err)
	rows := strings.Split(strings.TrimSpace(string(csv)), "\n")
	require.Len(t, rows, 13)
	assert.Equal(t, "file,exposure_time,shutter_speed,brightness,iso_speed,prediction", rows[0])
	for _, row := range rows[1:] {
		assert.True(t, strings.HasSuffix(row, ",1"), row)
	}

	store, err := predstore.Open(db)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	runs, err := store.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
}

func TestPredictFeatureMismatch(t *testing.T) {
	dir, config := project(t)
	data := filepath.Join(dir, "data")
	processed := filepath.Join(data, "processed")

	_, err := execute(t, "--config", config, "features", filepath.Join(data, "by-class"), "-o", filepath.Join(processed, "f.csv"))
	require.NoError(t, err)

	model := filepath.Join(dir, "models", "clf.gob")
	_, err = execute(t, "--config", config, "train", filepath.Join(processed, "f.csv"), "--model", model)
	require.NoError(t, err)

	_, err = execute(t, "--config", config, "--tagset", "extended", "predict", data, "--model", model)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "feature mismatch")
}

func TestTrainWithoutModelPathUsesModelDir(t *testing.T) {
	dir, config := project(t)
	data := filepath.Join(dir, "data")
	features := filepath.Join(dir, "f.csv")

	_, err := execute(t, "--config", config, "features", "--class", filepath.Join(data, "by-class", "open")+"=open",
		"--class", filepath.Join(data, "by-class", "closed")+"=closed", "-o", features)
	require.NoError(t, err)

	_, err = execute(t, "--config", config, "train", features)
	require.NoError(t, err)

	models, err := filepath.Glob(filepath.Join(dir, "models", "*_logreg-clr.gob"))
	require.NoError(t, err)
	assert.Len(t, models, 1)
}

func TestSample(t *testing.T) {
	dir, config := project(t)
	raw := filepath.Join(dir, "data", "raw")
	list := filepath.Join(dir, "sampled.txt")
	selected := filepath.Join(dir, "selected")

	_, err := execute(t, "--config", config, "sample", raw, "--hour", "12", "-o", list, "--copy-to", selected)
	require.NoError(t, err)

	got, err := os.ReadFile(list)
	require.NoError(t, err)
	want := fmt.Sprintf("%d\n%d\n", noon+30, noon+2*86400-10)
	assert.Equal(t, want, string(got))

	entries, err := os.ReadDir(selected)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	out, err := execute(t, "--config", config, "sample", "--list", list, "--exclusive-last-day")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%d\n", noon+30), out)
}

func TestSampleArgumentErrors(t *testing.T) {
	_, config := project(t)

	_, err := execute(t, "--config", config, "sample")
	assert.Error(t, err)

	_, err = execute(t, "--config", config, "sample", "--list", "x.txt", "--copy-to", "y")
	assert.Error(t, err)

	_, err = execute(t, "--config", config, "sample", t.TempDir(), "--hour", "25")
	assert.Error(t, err)
}

func TestInit(t *testing.T) {
	_, config := project(t)
	root := filepath.Join(t.TempDir(), "project")

	out, err := execute(t, "--config", config, "init", root)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ "+filepath.Join("data", "raw"))
	assert.FileExists(t, filepath.Join(root, "config.yaml"))
	assert.DirExists(t, filepath.Join(root, "data", "by-class", "closed"))
}
