// Package exiftags defines the EXIF tag sets used as classifier features.
package exiftags

import (
	"fmt"
	"strings"
)

// Tag maps a feature name to its numeric EXIF tag identifier.
type Tag struct {
	Name string
	ID   uint16
}

// TagSet is an ordered, immutable list of tags. The order defines the column
// order of every feature table built from it.
type TagSet struct {
	name string
	tags []Tag
}

// New returns a tag set holding a private copy of tags.
func New(name string, tags ...Tag) TagSet {
	return TagSet{name: name, tags: append([]Tag(nil), tags...)}
}

var (
	// Minimal is the tag set used for training and inference.
	Minimal = New("minimal",
		Tag{"exposure_time", 0x829a},
		Tag{"shutter_speed", 0x9201},
		Tag{"brightness", 0x9203},
		Tag{"iso_speed", 0x8827},
	)

	// Extended adds aperture related tags for exploratory extraction.
	Extended = New("extended",
		Tag{"exposure_time", 0x829a},
		Tag{"shutter_speed", 0x9201},
		Tag{"brightness", 0x9203},
		Tag{"iso_speed", 0x8827},
		Tag{"f_number", 0x829d},
		Tag{"aperture", 0x9202},
		Tag{"exposure_bias", 0x9204},
	)
)

// ByName returns the predefined tag set called name.
func ByName(name string) (TagSet, error) {
	switch strings.ToLower(name) {
	case "", Minimal.name:
		return Minimal, nil
	case Extended.name:
		return Extended, nil
	}
	return TagSet{}, fmt.Errorf("unknown tag set %q", name)
}

func (s TagSet) Name() string { return s.name }

func (s TagSet) Len() int { return len(s.tags) }

// Tags returns a copy of the tags in column order.
func (s TagSet) Tags() []Tag {
	return append([]Tag(nil), s.tags...)
}

// Names returns the feature column names in order.
func (s TagSet) Names() []string {
	names := make([]string, len(s.tags))
	for i, t := range s.tags {
		names[i] = t.Name
	}
	return names
}
