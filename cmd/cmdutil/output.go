// Package cmdutil holds helpers shared by the sub-commands.
package cmdutil

import (
	"io"
	"os"
	"path/filepath"
)

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// Create opens path for writing, creating parent directories. An empty path
// or "-" selects stdout, which is not closed.
func Create(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{stdout}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.Create(path)
}
