package script

import (
	"fmt"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format identifies how a declaration file is written
type Format int

const (
	FormatScript Format = iota // restricted call language
	FormatYAML
	FormatTOML
	FormatCUE
)

// FormatFor picks the format from a file name's extension
func FormatFor(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".cue":
		return FormatCUE
	}
	return FormatScript
}

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	case FormatCUE:
		return "cue"
	}
	return "script"
}

// Decode reads a structured declaration document into v. CUE documents are
// unified with the definition at schemaPath in schema, validated, then decoded.
func Decode(f Format, name string, data, schema []byte, schemaPath string, v any) error {
	switch f {
	case FormatYAML:
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	case FormatTOML:
		if err := toml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	case FormatCUE:
		return decodeCUE(name, data, schema, schemaPath, v)
	}
	return fmt.Errorf("%s: %s is not a structured format", name, f)
}

func decodeCUE(name string, data, schema []byte, schemaPath string, v any) error {
	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema)
	if err := schemaValue.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	root := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if err := root.Err(); err != nil {
		return fmt.Errorf("schema definition %s: %w", schemaPath, err)
	}

	userValue := ctx.CompileBytes(data, cue.Filename(name))
	if err := userValue.Err(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	unified := root.Unify(userValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if err := unified.Decode(v); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
