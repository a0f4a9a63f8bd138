// Package timestamps recovers capture times from timelapse frame filenames.
//
// Frames are named pic_<unix seconds>.jpg by the capture script. Only the
// filename is inspected; images are never opened.
package timestamps

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	log "github.com/sirupsen/logrus"

	"timelapse-frames/internal/walk"
)

// ErrPatternMismatch is returned for filenames that do not carry a timestamp.
var ErrPatternMismatch = errors.New("filename does not match frame pattern")

// framePattern matches timelapse frames: pic_1609459200.jpg
var framePattern = regexp.MustCompile(`^pic_(\d{10,})\.jpg$`)

// Frame is a file together with the capture time parsed from its name.
type Frame struct {
	Path      string
	Timestamp int64
}

// ParseFilename extracts the Unix timestamp embedded in the base name of path.
func ParseFilename(path string) (int64, error) {
	name := filepath.Base(path)
	m := framePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, fmt.Errorf("%s: %w", name, ErrPatternMismatch)
	}
	ts, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, ErrPatternMismatch)
	}
	return ts, nil
}

// ExtractFrames returns every frame under dir sorted by timestamp. Frames
// sharing a timestamp keep their walk order. Files that do not match the
// frame pattern are left out, and hidden files and folders and system
// folders such as @eaDir are not visited (see walk.Files).
func ExtractFrames(dir string) ([]Frame, error) {
	files, err := walk.Files(dir)
	if err != nil {
		return nil, err
	}

	frames := make([]Frame, 0, len(files))
	for _, path := range files {
		ts, err := ParseFilename(path)
		if err != nil {
			log.WithFields(log.Fields{
				"path":  path,
				"error": err,
			}).Debug("Skipping file without timestamp")
			continue
		}
		frames = append(frames, Frame{Path: path, Timestamp: ts})
	}

	sort.SliceStable(frames, func(i, j int) bool {
		return frames[i].Timestamp < frames[j].Timestamp
	})

	log.WithFields(log.Fields{
		"dir":     dir,
		"files":   len(files),
		"frames":  len(frames),
		"skipped": len(files) - len(frames),
	}).Info("Extracted frame timestamps")

	return frames, nil
}

// Extract returns the sorted timestamps of all frames under dir, with the
// same exclusions as ExtractFrames.
func Extract(dir string) ([]int64, error) {
	frames, err := ExtractFrames(dir)
	if err != nil {
		return nil, err
	}
	return Values(frames), nil
}

// Values projects frames onto their timestamps.
func Values(frames []Frame) []int64 {
	ts := make([]int64, len(frames))
	for i, f := range frames {
		ts[i] = f.Timestamp
	}
	return ts
}

// Select returns the frames whose timestamps appear in ts. When several frames
// share a selected timestamp only the first is returned.
func Select(frames []Frame, ts []int64) []Frame {
	want := make(map[int64]bool, len(ts))
	for _, t := range ts {
		want[t] = true
	}

	var selected []Frame
	for _, f := range frames {
		if want[f.Timestamp] {
			selected = append(selected, f)
			delete(want, f.Timestamp)
		}
	}
	return selected
}
