package features

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

const fileColumn = "file"

// CSVOptions controls the layout written by WriteCSV.
type CSVOptions struct {
	// File adds a leading column with the image path.
	File bool
}

// WriteCSV writes t with a header row: optionally file, then the feature
// columns in order, then the target column. Missing values are empty cells.
func WriteCSV(w io.Writer, t *Table, opts CSVOptions) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(t.Columns)+2)
	if opts.File {
		header = append(header, fileColumn)
	}
	header = append(header, t.Columns...)
	header = append(header, t.Target)
	if err := cw.Write(header); err != nil {
		return err
	}

	record := make([]string, len(header))
	for _, row := range t.Rows {
		record = record[:0]
		if opts.File {
			record = append(record, row.File)
		}
		for _, v := range row.Values {
			record = append(record, formatFloat(v))
		}
		if row.Target != nil {
			record = append(record, strconv.Itoa(*row.Target))
		} else {
			record = append(record, "")
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a table written by WriteCSV. The last header column is taken
// as the target; a leading "file" column is recognized.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("header %v: need at least one feature and a target column", header)
	}

	first := 0
	if header[0] == fileColumn {
		first = 1
	}
	last := len(header) - 1

	t := &Table{
		Columns: append([]string(nil), header[first:last]...),
		Target:  header[last],
	}

	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		row := Row{Values: make([]*float64, 0, len(t.Columns))}
		if first == 1 {
			row.File = record[0]
		}
		for _, cell := range record[first:last] {
			v, err := parseFloat(cell)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			row.Values = append(row.Values, v)
		}
		if cell := record[last]; cell != "" {
			target, err := parseTarget(cell)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			row.Target = &target
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

func parseFloat(cell string) (*float64, error) {
	if cell == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// parseTarget accepts "0"/"1" as well as "0.0"/"1.0", which pandas writes for
// integer columns that once held missing values.
func parseTarget(cell string) (int, error) {
	if i, err := strconv.Atoi(cell); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("target %q is not an integer", cell)
	}
	return int(f), nil
}
