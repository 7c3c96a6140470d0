package record

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/xerrors"
)

// Format is the encoding of a request.
type Format string

// The supported formats. FormatAuto picks the format from the file extension.
const (
	FormatAuto   Format = ""
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatCBOR   Format = "cbor"
	FormatBundle Format = "bundle"
)

// ParseFormat returns the format with the given name. The empty string and
// "auto" give FormatAuto.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatAuto, "auto":
		return FormatAuto, nil
	case FormatJSON, FormatYAML, FormatCBOR, FormatBundle:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return FormatAuto, xerrors.Errorf("unknown format %q", name)
}

// FormatFromPath returns the format implied by the extension of the path.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	f, err := ParseFormat(ext)
	if err != nil || f == FormatAuto {
		return FormatAuto, xerrors.Errorf("cannot tell the format of %q from its extension", path)
	}
	return f, nil
}

// Input is a request waiting to be solved.
type Input struct {
	Name   string
	Format Format
	Data   []byte
}

// ReadInput reads the request in the file at the given path. If the format is
// FormatAuto, it is picked from the extension.
func ReadInput(path string, format Format) (Input, error) {
	if format == FormatAuto {
		f, err := FormatFromPath(path)
		if err != nil {
			return Input{}, err
		}
		format = f
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Input{}, xerrors.Errorf("failed to read %s: %w", path, err)
	}
	return Input{Name: path, Format: format, Data: data}, nil
}
