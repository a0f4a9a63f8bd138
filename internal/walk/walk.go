// Package walk enumerates the files of an image tree.
//
// Every pipeline stage that reads a directory goes through Files so that all of
// them agree on which files exist and in which order they are visited.
package walk

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

// skipFolders contains directory names to skip during scanning.
// These are typically system folders or camera-specific directories
// that don't contain frames.
var skipFolders = map[string]bool{
	".stfolder":       true, // Syncthing
	".fseventsd":      true, // macOS filesystem events
	".Trashes":        true, // macOS trash
	".Spotlight-V100": true, // macOS Spotlight index
	"@eaDir":          true, // Synology thumbnails
	"PRIVATE":         true, // Camera system folder
	"THMBNL":          true, // Sony thumbnails
}

// imageExts contains photo file extensions a timelapse camera produces.
var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".tif":  true,
	".tiff": true,
	".heic": true,
	".dng":  true, // Adobe Digital Negative
	".arw":  true, // Sony RAW
	".cr2":  true, // Canon RAW
	".nef":  true, // Nikon RAW
}

// IsImage reports whether the file extension indicates a photo file.
func IsImage(path string) bool {
	return imageExts[strings.ToLower(filepath.Ext(path))]
}

// Files walks root recursively and returns the paths of all regular files in
// lexical walk order. Hidden files and folders, and the folders listed in
// skipFolders, are not visited. Entries that cannot be read are logged and
// skipped; only a failure to read root itself is returned.
func Files(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			log.WithFields(log.Fields{
				"path":  path,
				"error": err,
			}).Debug("Skipping unreadable path")
			return nil
		}

		name := d.Name()
		if d.IsDir() {
			if path != root && (strings.HasPrefix(name, ".") || skipFolders[name]) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") || !d.Type().IsRegular() {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	return files, nil
}
