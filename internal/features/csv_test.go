package features

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	v := func(f float64) *float64 { return &f }
	label := func(l int) *int { return &l }

	table := &Table{
		Columns: []string{"exposure_time", "iso_speed"},
		Target:  TargetLabel,
		Rows: []Row{
			{File: "open/a.jpg", Values: []*float64{v(0.004), v(100)}, Target: label(0)},
			{File: "closed/b.jpg", Values: []*float64{nil, v(800)}, Target: label(1)},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, table, CSVOptions{}))
	assert.Equal(t, "exposure_time,iso_speed,label\n0.004,100,0\n,800,1\n", buf.String())

	buf.Reset()
	table.Target = TargetPrediction
	table.Rows[1].Target = nil
	require.NoError(t, WriteCSV(&buf, table, CSVOptions{File: true}))
	assert.Equal(t, "file,exposure_time,iso_speed,prediction\nopen/a.jpg,0.004,100,0\nclosed/b.jpg,,800,\n", buf.String())
}

func TestReadCSV(t *testing.T) {
	table, err := ReadCSV(strings.NewReader("exposure_time,iso_speed,label\n0.004,100,0\n,800,1.0\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"exposure_time", "iso_speed"}, table.Columns)
	assert.Equal(t, TargetLabel, table.Target)
	require.Len(t, table.Rows, 2)
	assert.InDelta(t, 0.004, *table.Rows[0].Values[0], 1e-12)
	assert.Nil(t, table.Rows[1].Values[0])
	assert.Equal(t, 1, *table.Rows[1].Target)

	table, err = ReadCSV(strings.NewReader("file,brightness,prediction\nx.jpg,-1.5,\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"brightness"}, table.Columns)
	assert.Equal(t, "x.jpg", table.Rows[0].File)
	assert.Nil(t, table.Rows[0].Target)
}

func TestReadCSVErrors(t *testing.T) {
	for name, input := range map[string]string{
		"empty":        "",
		"short header": "label\n",
		"bad value":    "a,label\nbright,0\n",
		"bad target":   "a,label\n1,0.5\n",
		"ragged":       "a,label\n1,0,3\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(input))
			assert.Error(t, err)
		})
	}
}
