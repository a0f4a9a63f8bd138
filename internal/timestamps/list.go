package timestamps

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteList writes one timestamp per line, without a header.
func WriteList(w io.Writer, ts []int64) error {
	bw := bufio.NewWriter(w)
	for _, t := range ts {
		if _, err := bw.WriteString(strconv.FormatInt(t, 10) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadList reads a file written by WriteList. Blank lines are ignored.
func ReadList(r io.Reader) ([]int64, error) {
	var ts []int64
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		s := strings.TrimSpace(sc.Text())
		if s == "" {
			continue
		}
		t, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		ts = append(ts, t)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return ts, nil
}
