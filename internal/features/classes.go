package features

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseLabeledDir parses DIR=LABEL where LABEL is open, closed, 0 or 1.
func ParseLabeledDir(s string) (LabeledDir, error) {
	i := strings.LastIndex(s, "=")
	if i <= 0 || i == len(s)-1 {
		return LabeledDir{}, fmt.Errorf("class %q: want DIR=LABEL", s)
	}

	dir, name := s[:i], strings.ToLower(s[i+1:])
	switch name {
	case "open":
		return LabeledDir{Dir: dir, Label: LabelOpen}, nil
	case "closed":
		return LabeledDir{Dir: dir, Label: LabelClosed}, nil
	}

	label, err := strconv.Atoi(name)
	if err != nil || (label != LabelOpen && label != LabelClosed) {
		return LabeledDir{}, fmt.Errorf("class %q: %w", s, ErrInvalidLabel)
	}
	return LabeledDir{Dir: dir, Label: label}, nil
}
