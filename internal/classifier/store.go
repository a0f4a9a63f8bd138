package classifier

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ArtifactIOError reports a failure to save or load a model artifact.
type ArtifactIOError struct {
	Op   string
	Path string
	Err  error
}

func (e *ArtifactIOError) Error() string {
	return fmt.Sprintf("%s model %s: %v", e.Op, e.Path, e.Err)
}

func (e *ArtifactIOError) Unwrap() error { return e.Err }

// DefaultPath returns dir/<YYYYmmdd-HHMMSS>_logreg-clr.gob for the given time.
func DefaultPath(dir string, now time.Time) string {
	return filepath.Join(dir, now.Format("20060102-150405")+"_logreg-clr.gob")
}

// Save writes m to path, creating parent directories.
func Save(m *Model, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &ArtifactIOError{Op: "save", Path: path, Err: err}
	}

	f, err := os.Create(path)
	if err != nil {
		return &ArtifactIOError{Op: "save", Path: path, Err: err}
	}

	if err := gob.NewEncoder(f).Encode(m); err != nil {
		f.Close()
		return &ArtifactIOError{Op: "save", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &ArtifactIOError{Op: "save", Path: path, Err: err}
	}
	return nil
}

// Load reads a model written by Save.
func Load(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ArtifactIOError{Op: "load", Path: path, Err: err}
	}
	defer f.Close()

	var m Model
	if err := gob.NewDecoder(f).Decode(&m); err != nil {
		return nil, &ArtifactIOError{Op: "load", Path: path, Err: err}
	}
	if len(m.FeatureNames) != len(m.Weights) || len(m.Mean) != len(m.Weights) || len(m.Scale) != len(m.Weights) {
		return nil, &ArtifactIOError{Op: "load", Path: path, Err: ErrShape}
	}
	return &m, nil
}
