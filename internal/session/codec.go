// Package session reads, writes and validates quiz session files.
package session

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/freqprofile/internal/model"
)

// ErrUnknownFormat reports a file extension with no codec.
var ErrUnknownFormat = errors.New("unknown session format")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Format is a session file encoding.
type Format string

// Supported encodings.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Base(path))
	}
}

// Decode reads one session in the given format.
func Decode(r io.Reader, f Format) (model.Session, error) {
	var s model.Session
	var err error
	switch f {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&s)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&s)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	case FormatTOML:
		_, err = toml.NewDecoder(r).Decode(&s)
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("decode %s session: %w", f, err)
	}
	return s, nil
}

// Encode writes one session in the given format.
func Encode(w io.Writer, s model.Session, f Format) error {
	switch f {
	case FormatJSON:
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json session: %w", err)
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encode yaml session: %w", err)
		}
		return enc.Close()
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(s); err != nil {
			return fmt.Errorf("encode toml session: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// MarshalJSON encodes a session compactly, as stored alongside results.
func MarshalJSON(s model.Session) ([]byte, error) {
	return json.Marshal(s)
}

// UnmarshalJSON decodes a stored session payload.
func UnmarshalJSON(data []byte) (model.Session, error) {
	var s model.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return model.Session{}, fmt.Errorf("decode stored session: %w", err)
	}
	return s, nil
}
