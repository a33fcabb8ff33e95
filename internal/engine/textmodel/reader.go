package textmodel

import (
	"errors"
	"fmt"
	"io"

	"github.com/dimchansky/utfbom"
)

// ErrUnsupportedEncoding is returned when input starts with a UTF-16 or
// UTF-32 byte order mark.
var ErrUnsupportedEncoding = errors.New("unsupported text encoding")

// NewFromReader reads UTF-8 text from r and builds a model from it. A
// leading UTF-8 byte order mark is dropped. The dominant line ending of the
// input becomes the model's line ending unless opts set one.
func NewFromReader(r io.Reader, opts ...Option) (*Model, error) {
	br, enc := utfbom.Skip(r)
	switch enc {
	case utfbom.Unknown, utfbom.UTF8:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEncoding, enc)
	}

	data, err := io.ReadAll(br)
	if err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}
	text := string(data)

	opts = append([]Option{WithLineEnding(DetectLineEnding(text))}, opts...)
	return NewFromString(text, opts...), nil
}

// WriteTo writes the document using the model's line ending.
func (m *Model) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, m.DefaultText())
	return int64(n), err
}
