package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Decode strictly decodes data into v. source names the input in errors.
// Empty input leaves v untouched.
func Decode(source string, format Format, data []byte, v any) error {
	switch format {
	case FormatTOML:
		return decodeTOML(source, data, v)
	case FormatYAML:
		return decodeYAML(source, data, v)
	}
	return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
}

func decodeTOML(source string, data []byte, v any) error {
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	err := dec.Decode(v)
	if err == nil {
		return nil
	}

	perr := &ParseError{Path: source, Message: err.Error(), Err: err}

	var derr *toml.DecodeError
	var serr *toml.StrictMissingError
	switch {
	case errors.As(err, &derr):
		perr.Line, perr.Column = derr.Position()
	case errors.As(err, &serr) && len(serr.Errors) > 0:
		perr.Line, perr.Column = serr.Errors[0].Position()
		perr.Message = "unknown key " + strings.Join(serr.Errors[0].Key(), ".")
	}
	return perr
}

var yamlLine = regexp.MustCompile(`line (\d+)`)

func decodeYAML(source string, data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	err := dec.Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	perr := &ParseError{Path: source, Message: err.Error(), Err: err}
	if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
		perr.Line, _ = strconv.Atoi(m[1])
	}
	return perr
}
