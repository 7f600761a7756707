package survey

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"solar-estimate/internal/errors"
)

// Format is a survey document encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the encoding from a file extension. Anything that is
// not .yaml/.yml is read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads a survey record from a JSON or YAML file.
func Load(path string) (*Survey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("survey file", path)
		}
		return nil, errors.Wrapf(errors.TypeInput, err, "read survey %s", path)
	}
	s, err := Decode(bytes.NewReader(data), FormatFromPath(path))
	if err != nil {
		return nil, errors.Wrapf(errors.TypeParsing, err, "decode survey %s", path)
	}
	return s, nil
}

// Decode reads one survey record. Unknown keys are rejected so that a typo in
// a checklist field does not silently price as "unchecked".
func Decode(r io.Reader, format Format) (*Survey, error) {
	var s Survey
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil {
			return nil, errors.Parsing("invalid survey yaml", err)
		}
	default:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return nil, errors.Parsing("invalid survey json", err)
		}
	}
	return &s, nil
}
