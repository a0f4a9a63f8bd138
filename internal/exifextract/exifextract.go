// Package exifextract reads numeric EXIF fields from every image in a tree.
//
// Files are handled independently: a file that is not an image, or an image
// without an EXIF block, is skipped and the walk continues.
package exifextract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
	log "github.com/sirupsen/logrus"

	"timelapse-frames/internal/exiftags"
	"timelapse-frames/internal/walk"
)

// ErrNoExif is returned by ReadFile for an image that carries no usable EXIF block.
var ErrNoExif = errors.New("no exif data")

var errNotImage = errors.New("not an image")

// DecodeError reports a file that could not be opened or is not an image.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Record holds the requested tag values of one image. A tag that is absent
// from the image, or not numeric, maps to nil.
type Record struct {
	Path   string
	Values map[string]*float64
}

// Value returns the value of the named tag and whether it was present.
func (r Record) Value(name string) (float64, bool) {
	v := r.Values[name]
	if v == nil {
		return 0, false
	}
	return *v, true
}

// Extract reads tags from every file under dir, in walk order. Files without
// EXIF data and files that cannot be decoded contribute no record. Hidden
// files and folders, and system folders such as @eaDir or THMBNL, are
// not visited (see walk.Files).
func Extract(dir string, tags exiftags.TagSet) ([]Record, error) {
	files, err := walk.Files(dir)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(files))
	skipped := 0

	for _, path := range files {
		rec, err := ReadFile(path, tags)
		if err != nil {
			skipped++
			logSkip(path, err)
			continue
		}
		records = append(records, rec)
	}

	log.WithFields(log.Fields{
		"dir":     dir,
		"tag_set": tags.Name(),
		"files":   len(files),
		"records": len(records),
		"skipped": skipped,
	}).Info("Extracted EXIF features")

	return records, nil
}

func logSkip(path string, err error) {
	entry := log.WithFields(log.Fields{
		"path":  path,
		"error": err,
	})

	var decodeErr *DecodeError
	switch {
	case errors.Is(err, ErrNoExif):
		entry.Debug("Skipping image without EXIF data")
	case errors.As(err, &decodeErr) && walk.IsImage(path):
		entry.Warn("Skipping unreadable image")
	default:
		entry.Debug("Skipping non-image file")
	}
}

// ReadFile reads tags from a single file. It returns a *DecodeError when the
// file cannot be read or is not an image, and ErrNoExif when the image has no
// EXIF block.
func ReadFile(path string, tags exiftags.TagSet) (Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return Record{}, &DecodeError{Path: path, Err: err}
	}
	defer f.Close()

	head := make([]byte, 16)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Record{}, &DecodeError{Path: path, Err: err}
	}
	if !isImage(head[:n]) {
		return Record{}, &DecodeError{Path: path, Err: errNotImage}
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return Record{}, &DecodeError{Path: path, Err: err}
	}

	x, err := exif.Decode(f)
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		return Record{}, fmt.Errorf("%s: %w", path, ErrNoExif)
	}

	byID, err := indexTags(x)
	if err != nil {
		return Record{}, &DecodeError{Path: path, Err: err}
	}

	rec := Record{Path: path, Values: make(map[string]*float64, tags.Len())}
	for _, t := range tags.Tags() {
		rec.Values[t.Name] = numeric(byID[t.ID])
	}
	return rec, nil
}

// tagIndex collects decoded tags keyed by their numeric identifier.
type tagIndex map[uint16]*tiff.Tag

// fieldWalker is implemented by *exif.Exif.
type fieldWalker interface {
	Walk(w exif.Walker) error
}

func indexTags(x fieldWalker) (tagIndex, error) {
	idx := make(tagIndex)
	if err := x.Walk(idx); err != nil {
		return nil, fmt.Errorf("walk exif fields: %w", err)
	}
	return idx, nil
}

func (idx tagIndex) Walk(_ exif.FieldName, tag *tiff.Tag) error {
	if _, ok := idx[tag.Id]; !ok {
		idx[tag.Id] = tag
	}
	return nil
}

// numeric converts the first value of tag to a float. Non-numeric tags and
// rationals with a zero denominator yield nil.
func numeric(tag *tiff.Tag) *float64 {
	if tag == nil || tag.Count == 0 {
		return nil
	}

	var v float64
	switch tag.Format() {
	case tiff.IntVal:
		i, err := tag.Int64(0)
		if err != nil {
			return nil
		}
		v = float64(i)
	case tiff.RatVal:
		num, den, err := tag.Rat2(0)
		if err != nil || den == 0 {
			return nil
		}
		v = float64(num) / float64(den)
	case tiff.FloatVal:
		f, err := tag.Float(0)
		if err != nil {
			return nil
		}
		v = f
	default:
		return nil
	}
	return &v
}

// imageSignatures are the leading bytes of the image formats a camera writes.
var imageSignatures = [][]byte{
	{0xFF, 0xD8, 0xFF},          // JPEG
	[]byte("\x89PNG\r\n\x1a\n"), // PNG
	[]byte("GIF8"),              // GIF
	[]byte("II*\x00"),           // TIFF, little endian (also DNG, ARW, NEF, CR2)
	[]byte("MM\x00*"),           // TIFF, big endian
	[]byte("Exif\x00\x00"),      // raw EXIF block
}

func isImage(head []byte) bool {
	for _, sig := range imageSignatures {
		if bytes.HasPrefix(head, sig) {
			return true
		}
	}
	// ISO base media (HEIC/HEIF/AVIF): "....ftyp"
	return len(head) >= 12 && string(head[4:8]) == "ftyp"
}
