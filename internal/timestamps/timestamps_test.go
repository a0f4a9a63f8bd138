package timestamps

import (
	"bytes"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timelapse-frames/internal/testutil"
)

func TestParseFilename(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		want    int64
		wantErr bool
	}{
		{name: "frame", path: "pic_1609459200.jpg", want: 1609459200},
		{name: "frame in subdir", path: filepath.Join("raw", "2021", "pic_1609459200.jpg"), want: 1609459200},
		{name: "more than ten digits", path: "pic_16094592001.jpg", want: 16094592001},
		{name: "other name", path: "photo1.jpg", wantErr: true},
		{name: "too few digits", path: "pic_160945920.jpg", wantErr: true},
		{name: "wrong extension", path: "pic_1609459200.png", wantErr: true},
		{name: "upper case extension", path: "pic_1609459200.JPG", wantErr: true},
		{name: "suffix", path: "pic_1609459200_1.jpg", wantErr: true},
		{name: "overflow", path: "pic_99999999999999999999.jpg", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFilename(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrPatternMismatch)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"pic_1609545600.jpg",
		filepath.Join("b", "pic_1609459200.jpg"),
		filepath.Join("a", "pic_1609502400.jpg"),
		"photo1.jpg",
		"README.txt",
	} {
		testutil.WriteFile(t, dir, name, []byte("x"))
	}

	ts, err := Extract(dir)
	require.NoError(t, err)

	assert.Equal(t, []int64{1609459200, 1609502400, 1609545600}, ts)
	assert.True(t, sort.SliceIsSorted(ts, func(i, j int) bool { return ts[i] < ts[j] }))
}

func TestExtractFramesKeepsPaths(t *testing.T) {
	dir := t.TempDir()
	late := testutil.WriteFile(t, dir, "pic_1609545600.jpg", []byte("x"))
	early := testutil.WriteFile(t, dir, filepath.Join("z", "pic_1609459200.jpg"), []byte("x"))

	frames, err := ExtractFrames(dir)
	require.NoError(t, err)

	assert.Equal(t, []Frame{
		{Path: early, Timestamp: 1609459200},
		{Path: late, Timestamp: 1609545600},
	}, frames)
}

func TestSelect(t *testing.T) {
	frames := []Frame{
		{Path: "a/pic_100.jpg", Timestamp: 100},
		{Path: "b/pic_100.jpg", Timestamp: 100},
		{Path: "pic_200.jpg", Timestamp: 200},
		{Path: "pic_300.jpg", Timestamp: 300},
	}

	got := Select(frames, []int64{100, 300, 999})

	assert.Equal(t, []Frame{frames[0], frames[3]}, got)
}

func TestListRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteList(&buf, []int64{100, 200, 86500}))
	assert.Equal(t, "100\n200\n86500\n", buf.String())

	ts, err := ReadList(strings.NewReader("100\n\n200\n86500\n"))
	require.NoError(t, err)
	assert.Equal(t, []int64{100, 200, 86500}, ts)
}

func TestReadListRejectsGarbage(t *testing.T) {
	_, err := ReadList(strings.NewReader("100\nnoon\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}
