// Package loader reads configuration files and environment variables.
//
// Files are decoded strictly into a caller-supplied struct: TOML through
// go-toml/v2 and YAML through yaml.v3, chosen by file extension. Unknown
// keys are parse errors. Environment variables are returned as a flat map
// of setting paths to typed values.
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrUnknownFormat indicates a file extension with no decoder.
var ErrUnknownFormat = errors.New("unknown configuration format")

// Format identifies a configuration file syntax.
type Format uint8

const (
	FormatTOML Format = iota + 1
	FormatYAML
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// FormatFor picks a format from the extension of path.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, path)
}

// FileSystem is an abstraction for file system operations.
// This allows for easy testing with in-memory file systems.
type FileSystem interface {
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
	// Stat returns file info for path.
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// DefaultFS returns the default file system (OS).
func DefaultFS() FileSystem {
	return OSFS{}
}

// MemFS is an in-memory FileSystem.
type MemFS struct {
	files map[string][]byte
}

// NewMemFS creates an empty in-memory file system.
func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

// AddFile stores content at path.
func (m *MemFS) AddFile(path, content string) {
	m.files[path] = []byte(content)
}

// ReadFile implements FileSystem.
func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return data, nil
}

// Stat implements FileSystem.
func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
	}
	return memFileInfo{name: filepath.Base(path), size: int64(len(data))}, nil
}

type memFileInfo struct {
	name string
	size int64
}

func (f memFileInfo) Name() string       { return f.name }
func (f memFileInfo) Size() int64        { return f.size }
func (f memFileInfo) Mode() fs.FileMode  { return 0o644 }
func (f memFileInfo) ModTime() time.Time { return time.Time{} }
func (f memFileInfo) IsDir() bool        { return false }
func (f memFileInfo) Sys() any           { return nil }

// ReadInto decodes the file at path into v. A missing file is not an
// error: found is false and v is left untouched.
func ReadInto(fsys FileSystem, path string, v any) (found bool, err error) {
	format, err := FormatFor(path)
	if err != nil {
		return false, err
	}
	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return true, Decode(path, format, data, v)
}
