// Package domain defines stored files and the rules their names and contents follow.
package domain

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxFilenameLength is the longest accepted filename in bytes.
const MaxFilenameLength = 254

// Filename is the validated, storage-wide unique name of a file.
type Filename struct {
	value string
}

// NewFilename validates raw and returns it as a Filename.
func NewFilename(raw string) (Filename, error) {
	name := strings.TrimSpace(raw)

	switch {
	case name == "":
		return Filename{}, fmt.Errorf("%w: must not be empty", ErrInvalidFilename)
	case len(name) > MaxFilenameLength:
		return Filename{}, fmt.Errorf("%w: must not be longer than %d characters", ErrInvalidFilename, MaxFilenameLength)
	case !utf8.ValidString(name):
		return Filename{}, fmt.Errorf("%w: must be valid UTF-8", ErrInvalidFilename)
	case strings.HasPrefix(name, "."):
		return Filename{}, fmt.Errorf("%w: must not start with a dot", ErrInvalidFilename)
	case strings.ContainsAny(name, `/\`):
		return Filename{}, fmt.Errorf("%w: must not contain path separators", ErrInvalidFilename)
	case strings.ContainsFunc(name, unicode.IsControl):
		return Filename{}, fmt.Errorf("%w: must not contain control characters", ErrInvalidFilename)
	}

	return Filename{value: name}, nil
}

// MustFilename is like NewFilename but panics on invalid input.
func MustFilename(raw string) Filename {
	name, err := NewFilename(raw)
	if err != nil {
		panic(err)
	}
	return name
}

// String returns the normalized filename.
func (f Filename) String() string {
	return f.value
}

// IsZero reports whether the filename was never set.
func (f Filename) IsZero() bool {
	return f.value == ""
}
