package chain

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/cmdtower/pkg/errors"
)

// Format identifies a chain document format.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFromPath returns the format implied by the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mcc", ".txt":
		return FormatText, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported chain file extension: %q", filepath.Ext(path))
}

// ParseFormat parses a format name. Empty input yields FormatText.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", "mcc", "txt":
		return FormatText, nil
	case "yml":
		return FormatYAML, nil
	case FormatText, FormatYAML, FormatTOML, FormatJSON:
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown chain format: %q", s)
}

// Parse decodes data in the given format, fills default modes and validates
// the result.
func Parse(data []byte, format Format) (*Chain, error) {
	var (
		c   *Chain
		err error
	)
	switch format {
	case FormatText:
		c, err = ParseText(data)
	case FormatYAML:
		c, err = ParseYAML(data)
	case FormatTOML:
		c, err = ParseTOML(data)
	case FormatJSON:
		c, err = ParseJSON(data)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown chain format: %q", format)
	}
	if err != nil {
		return nil, err
	}
	if err := c.Normalize(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads and parses the chain document at path. The chain name defaults
// to the file name without extension.
func Load(path string) (*Chain, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "read chain %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidArgument, err, "read chain %s", path)
	}
	c, err := Parse(data, format)
	if err != nil {
		return nil, err
	}
	if c.Name == "" {
		base := filepath.Base(path)
		c.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return c, nil
}
