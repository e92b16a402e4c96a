package export

import (
	"fmt"
	"strings"
)

// Format names an export encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatJSONGzip Format = "json.gz"
	FormatMUS      Format = "mus"
	FormatBadger   Format = "badger"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatJSON, FormatJSONGzip, FormatMUS, FormatBadger}
}

// ParseFormat resolves a format name, ignoring case and surrounding space.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Extension returns the file suffix for the format. Badger exports are
// directories and carry no suffix.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatJSONGzip:
		return ".json.gz"
	case FormatMUS:
		return ".mus"
	}
	return ""
}

func (f Format) String() string {
	return string(f)
}
