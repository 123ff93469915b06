package chain

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/cmdtower/pkg/errors"
)

//go:embed chain.schema.json
var schemaJSON string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// Schema returns the compiled JSON Schema for chain documents.
func Schema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("chain.schema.json", schemaJSON)
	})
	return schema, schemaErr
}

// SchemaJSON returns the raw JSON Schema for chain documents.
func SchemaJSON() string { return schemaJSON }

// ParseJSON decodes a JSON chain document after validating it against
// [Schema].
func ParseJSON(data []byte) (*Chain, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
	}
	s, err := Schema()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "compile chain schema")
	}
	if err := s.Validate(doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "validate json")
	}

	var c Chain
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
	}
	return &c, nil
}

// ParseYAML decodes a YAML chain document.
func ParseYAML(data []byte) (*Chain, error) {
	var c Chain
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml")
	}
	return &c, nil
}

// ParseTOML decodes a TOML chain document.
func ParseTOML(data []byte) (*Chain, error) {
	var c Chain
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml")
	}
	// Keys below "commands" are consumed by Command.UnmarshalTOML.
	for _, key := range md.Undecoded() {
		if len(key) > 0 && key[0] != "commands" {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "decode toml: unknown key %q", key.String())
		}
	}
	return &c, nil
}

// commandFields mirrors Command without its custom decoders.
type commandFields Command

// UnmarshalJSON accepts a bare string or an object.
func (c *Command) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*c = Command{Text: text}
		return nil
	}
	var f commandFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*c = Command(f)
	return nil
}

// UnmarshalYAML accepts a bare string or a mapping.
func (c *Command) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*c = Command{Text: node.Value}
		return nil
	}
	var f commandFields
	if err := node.Decode(&f); err != nil {
		return err
	}
	*c = Command(f)
	return nil
}

// UnmarshalTOML accepts a bare string or an inline table.
func (c *Command) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case string:
		*c = Command{Text: v}
		return nil
	case map[string]any:
		var f Command
		for key, val := range v {
			switch key {
			case "command":
				s, ok := val.(string)
				if !ok {
					return fmt.Errorf("command: want string, got %T", val)
				}
				f.Text = s
			case "conditional":
				b, ok := val.(bool)
				if !ok {
					return fmt.Errorf("conditional: want bool, got %T", val)
				}
				f.Conditional = b
			case "mode":
				s, ok := val.(string)
				if !ok {
					return fmt.Errorf("mode: want string, got %T", val)
				}
				f.Mode = Mode(s)
			case "name":
				s, ok := val.(string)
				if !ok {
					return fmt.Errorf("name: want string, got %T", val)
				}
				f.Name = s
			default:
				return fmt.Errorf("unknown key %q", key)
			}
		}
		*c = f
		return nil
	}
	return fmt.Errorf("command: want string or table, got %T", v)
}
