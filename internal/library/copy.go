package library

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"timelapse-frames/internal/timestamps"
)

// CopyResult summarizes a CopyFrames call.
type CopyResult struct {
	Copied  int
	Skipped int
}

// CopyFrames copies the files of frames flat into dst. A file already present
// in dst with the same size is considered a duplicate and skipped.
func CopyFrames(frames []timestamps.Frame, dst string) (CopyResult, error) {
	var res CopyResult

	if err := os.MkdirAll(dst, 0o755); err != nil {
		return res, fmt.Errorf("failed to create %s: %w", dst, err)
	}

	for _, f := range frames {
		destPath := filepath.Join(dst, filepath.Base(f.Path))

		if destInfo, err := os.Stat(destPath); err == nil {
			srcInfo, err := os.Stat(f.Path)
			if err != nil {
				return res, err
			}
			if srcInfo.Size() == destInfo.Size() {
				res.Skipped++
				continue
			}
		}

		if err := copyFile(f.Path, destPath); err != nil {
			return res, fmt.Errorf("failed to copy %s: %w", f.Path, err)
		}
		res.Copied++

		log.WithFields(log.Fields{
			"src":       f.Path,
			"dst":       destPath,
			"timestamp": f.Timestamp,
		}).Debug("Copied frame")
	}

	return res, nil
}

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		return err
	}
	return dstFile.Close()
}
