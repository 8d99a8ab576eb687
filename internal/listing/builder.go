package listing

import (
	"errors"
	"fmt"

	"github.com/samhoang/capable/internal/script"
)

// ErrMissingFile is returned when a record does not name its file
var ErrMissingFile = errors.New("record has no file")

// Record is the declarative form of one list entry
type Record struct {
	File     string   `yaml:"file" toml:"file" json:"file"`
	Provides []string `yaml:"provides,omitempty" toml:"provides,omitempty" json:"provides,omitempty"`
	Depends  []string `yaml:"depends,omitempty" toml:"depends,omitempty" json:"depends,omitempty"`
}

// Builder applies declarations to a collection. It holds the cursor that
// chained declarations act on and lives for a single evaluation.
type Builder struct {
	cursors *CursorCollection
	current *FileCursor
}

// NewBuilder returns a builder that appends to cursors
func NewBuilder(cursors *CursorCollection) *Builder {
	return &Builder{cursors: cursors}
}

// File creates a cursor without selecting it
func (b *Builder) File() *FileCursor {
	return b.cursors.File()
}

// The selects the cursor later declarations apply to
func (b *Builder) The(cursor *FileCursor) *FileCursor {
	b.current = b.cursors.Add(cursor)
	return cursor
}

// Current returns the selected cursor
func (b *Builder) Current() (*FileCursor, error) {
	if b.current == nil {
		return nil, fmt.Errorf("%w: you have not defined anything to work with", ErrNoCurrentCursor)
	}
	return b.current, nil
}

// At binds the selected cursor to path
func (b *Builder) At(path string) (string, error) {
	cursor, err := b.Current()
	if err != nil {
		return "", err
	}
	return cursor.At(path), nil
}

// Provides declares name on the selected cursor. When strict is set a name
// already provided by another cursor is a ConflictError; otherwise the repeat
// declaration is ignored.
func (b *Builder) Provides(name string, strict bool) error {
	if owner := b.cursors.ProvidedBy(name); owner != nil {
		if strict && owner != b.current {
			return &ConflictError{Provider: name, Owner: owner.String()}
		}
		return nil
	}
	cursor, err := b.Current()
	if err != nil {
		return err
	}
	cursor.Provides(name)
	return nil
}

// Depends declares a dependency on the selected cursor
func (b *Builder) Depends(name string) error {
	cursor, err := b.Current()
	if err != nil {
		return err
	}
	cursor.Depends(name)
	return nil
}

// Define adds a cursor for rec and selects it
func (b *Builder) Define(rec Record) (*FileCursor, error) {
	if rec.File == "" {
		return nil, ErrMissingFile
	}
	cursor := b.The(b.File())
	cursor.At(rec.File)
	for _, name := range rec.Provides {
		if name == "" {
			continue
		}
		if err := b.Provides(name, true); err != nil {
			return nil, err
		}
	}
	for _, name := range rec.Depends {
		if name == "" {
			continue
		}
		cursor.Depends(On(name))
	}
	return cursor, nil
}

// Funcs binds the builder to the names a list script may call
func (b *Builder) Funcs() script.Funcs {
	return script.Funcs{
		"file": func(script.Args) (script.Value, error) {
			return b.File(), nil
		},
		"the": func(a script.Args) (script.Value, error) {
			if len(a.Positional) == 0 {
				return nil, fmt.Errorf("%w: the needs a cursor", script.ErrArgument)
			}
			cursor, ok := a.Positional[0].(*FileCursor)
			if !ok {
				return nil, fmt.Errorf("%w: the needs a cursor, got %s", script.ErrArgument, script.TypeName(a.Positional[0]))
			}
			return b.The(cursor), nil
		},
		"at": func(a script.Args) (script.Value, error) {
			path, err := a.String(0)
			if err != nil {
				return nil, err
			}
			return b.At(path)
		},
		"provides": func(a script.Args) (script.Value, error) {
			names, err := positionalNames(a)
			if err != nil {
				return nil, err
			}
			strict := true
			if v, ok := a.Options()["raise_on_fail"].(bool); ok {
				strict = v
			}
			for _, name := range names {
				if err := b.Provides(name, strict); err != nil {
					return nil, err
				}
			}
			return nil, nil
		},
		"depends": func(a script.Args) (script.Value, error) {
			names, err := positionalNames(a)
			if err != nil {
				return nil, err
			}
			for _, name := range names {
				if err := b.Depends(name); err != nil {
					return nil, err
				}
			}
			return nil, nil
		},
		"on": func(a script.Args) (script.Value, error) {
			name, err := a.String(0)
			if err != nil {
				return nil, err
			}
			return On(name), nil
		},
		"define": func(a script.Args) (script.Value, error) {
			rec, err := recordFromOptions(a.Options())
			if err != nil {
				return nil, err
			}
			return b.Define(rec)
		},
	}
}

func positionalNames(a script.Args) ([]string, error) {
	if len(a.Positional) == 0 {
		return nil, fmt.Errorf("%w: missing name", script.ErrArgument)
	}
	return script.StringList(a.Positional[0])
}

func recordFromOptions(opts map[string]script.Value) (Record, error) {
	var rec Record
	file, err := script.OptionString(opts, "file")
	if err != nil {
		return rec, err
	}
	rec.File = file
	if rec.Provides, err = script.StringList(opts["provides"]); err != nil {
		return rec, err
	}
	if rec.Depends, err = script.StringList(opts["depends"]); err != nil {
		return rec, err
	}
	return rec, nil
}
