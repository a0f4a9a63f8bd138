// Package library manages the on-disk working tree of a timelapse project:
//
//	project/
//	├── config.yaml
//	├── data/
//	│   ├── raw/          <- all frames, pic_<unix>.jpg
//	│   ├── by-class/
//	│   │   ├── open/     <- labeled training frames
//	│   │   └── closed/
//	│   └── processed/    <- timestamp lists and feature tables
//	└── models/           <- fitted classifiers
package library

import (
	"fmt"
	"os"
	"path/filepath"

	"timelapse-frames/internal/conf"
)

// Layout names the directories of a project rooted at Root.
type Layout struct {
	Root string
}

func (l Layout) Raw() string       { return filepath.Join(l.Root, "data", "raw") }
func (l Layout) ByClass() string   { return filepath.Join(l.Root, "data", "by-class") }
func (l Layout) Processed() string { return filepath.Join(l.Root, "data", "processed") }
func (l Layout) Models() string    { return filepath.Join(l.Root, "models") }
func (l Layout) Config() string    { return filepath.Join(l.Root, "config.yaml") }

// Entry is one directory or file handled by Init.
type Entry struct {
	Path    string
	Desc    string
	Created bool
}

// Init creates the project structure below l.Root. Existing directories and
// an existing config file are kept.
func Init(l Layout) ([]Entry, error) {
	dirs := []struct {
		path string
		desc string
	}{
		{l.Raw(), "All frames (pic_<unix>.jpg)"},
		{filepath.Join(l.ByClass(), "open"), "Labeled open frames"},
		{filepath.Join(l.ByClass(), "closed"), "Labeled closed frames"},
		{l.Processed(), "Timestamp lists and feature tables"},
		{l.Models(), "Fitted classifiers"},
	}

	var entries []Entry
	for _, dir := range dirs {
		if _, err := os.Stat(dir.path); err == nil {
			entries = append(entries, Entry{Path: dir.path, Desc: dir.desc})
			continue
		}

		if err := os.MkdirAll(dir.path, 0o755); err != nil {
			return entries, fmt.Errorf("failed to create %s: %w", dir.path, err)
		}
		entries = append(entries, Entry{Path: dir.path, Desc: dir.desc, Created: true})
	}

	created, err := conf.WriteDefault(l.Config())
	if err != nil {
		return entries, err
	}
	entries = append(entries, Entry{Path: l.Config(), Desc: "Default settings", Created: created})

	return entries, nil
}
