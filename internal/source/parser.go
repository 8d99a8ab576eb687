package source

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/samhoang/capable/internal/script"
)

//go:embed schema.cue
var importSchema []byte

// SourceParser evaluates an import file into a SourceCollection
type SourceParser struct {
	name     string
	contents []byte
	format   script.Format

	sources   *SourceCollection
	evaluated bool
	err       error
}

// NewSourceParser creates a parser for contents. name's extension picks the
// format: the call language by default, or YAML, TOML or CUE records.
func NewSourceParser(name string, contents []byte, env Env) *SourceParser {
	return &SourceParser{
		name:     name,
		contents: contents,
		format:   script.FormatFor(name),
		sources:  NewSourceCollection(env),
	}
}

// Sources returns the collection, which stays empty until Evaluate runs
func (p *SourceParser) Sources() *SourceCollection {
	return p.sources
}

// Evaluate declares every source. Only the first call does any work.
func (p *SourceParser) Evaluate() (*SourceCollection, error) {
	if p.evaluated {
		return p.sources, p.err
	}
	p.evaluated = true

	if p.format == script.FormatScript {
		p.err = p.evaluateScript()
	} else {
		p.err = p.evaluateRecords()
	}
	if p.err != nil {
		p.err = fmt.Errorf("%s: %w", p.name, p.err)
	}
	return p.sources, p.err
}

// Package evaluates the import file and packages every source
func (p *SourceParser) Package(ctx context.Context) error {
	sources, err := p.Evaluate()
	if err != nil {
		return err
	}
	return sources.Package(ctx)
}

func (p *SourceParser) evaluateScript() error {
	prog, err := script.Parse(string(p.contents))
	if err != nil {
		return err
	}
	return script.Run(prog, script.Funcs{"git": p.git})
}

// git implements git(url, ref:, refname:, base:) { capable_of(...) }
func (p *SourceParser) git(a script.Args) (script.Value, error) {
	url, err := a.String(0)
	if err != nil {
		return nil, err
	}
	var opts SourceOptions
	if err := sourceOptions(a.Options(), &opts); err != nil {
		return nil, err
	}

	return p.sources.Git(url, opts, func(s *GitSource) error {
		return script.Run(a.Block, script.Funcs{
			"capable_of": func(a script.Args) (script.Value, error) {
				name, err := a.String(0)
				if err != nil {
					return nil, err
				}
				var opts CapabilityOptions
				if err := capabilityOptions(a.Options(), &opts); err != nil {
					return nil, err
				}
				return s.CapableOf(name, opts), nil
			},
		})
	})
}

func sourceOptions(opts map[string]script.Value, out *SourceOptions) error {
	var err error
	if out.Ref, err = script.OptionString(opts, "ref"); err != nil {
		return err
	}
	if out.Refname, err = script.OptionString(opts, "refname"); err != nil {
		return err
	}
	out.Base, err = script.OptionString(opts, "base")
	return err
}

func capabilityOptions(opts map[string]script.Value, out *CapabilityOptions) error {
	fields := []struct {
		key string
		dst *string
	}{
		{"target", &out.Target},
		{"subtarget", &out.Subtarget},
		{"base", &out.Base},
		{"ref", &out.Ref},
		{"refname", &out.Refname},
	}
	for _, f := range fields {
		v, err := script.OptionString(opts, f.key)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	return nil
}

// importDocument is the structured form of an import file:
//
//	sources:
//	  - git: https://example.com/shared.git
//	    refname: develop
//	    capable_of:
//	      - provider: lib/hello.rb
//	        target: hello_you.rb
type importDocument struct {
	Sources []sourceRecord `yaml:"sources" toml:"sources" json:"sources"`
}

type sourceRecord struct {
	Git          string             `yaml:"git" toml:"git" json:"git"`
	Ref          string             `yaml:"ref" toml:"ref" json:"ref"`
	Refname      string             `yaml:"refname" toml:"refname" json:"refname"`
	Base         string             `yaml:"base" toml:"base" json:"base"`
	Capabilities []capabilityRecord `yaml:"capable_of" toml:"capable_of" json:"capable_of"`
}

type capabilityRecord struct {
	Provider  string `yaml:"provider" toml:"provider" json:"provider"`
	Target    string `yaml:"target" toml:"target" json:"target"`
	Subtarget string `yaml:"subtarget" toml:"subtarget" json:"subtarget"`
	Base      string `yaml:"base" toml:"base" json:"base"`
	Ref       string `yaml:"ref" toml:"ref" json:"ref"`
	Refname   string `yaml:"refname" toml:"refname" json:"refname"`
}

func (p *SourceParser) evaluateRecords() error {
	var doc importDocument
	if err := script.Decode(p.format, p.name, p.contents, importSchema, "#Import", &doc); err != nil {
		return err
	}

	for i, rec := range doc.Sources {
		if rec.Git == "" {
			return fmt.Errorf("source %d: %w: git url is required", i+1, script.ErrArgument)
		}
		opts := SourceOptions{Ref: rec.Ref, Refname: rec.Refname, Base: rec.Base}
		_, err := p.sources.Git(rec.Git, opts, func(s *GitSource) error {
			for j, c := range rec.Capabilities {
				if c.Provider == "" {
					return fmt.Errorf("source %s capability %d: %w: provider is required", rec.Git, j+1, script.ErrArgument)
				}
				s.CapableOf(c.Provider, CapabilityOptions{
					Target:    c.Target,
					Subtarget: c.Subtarget,
					Base:      c.Base,
					Ref:       c.Ref,
					Refname:   c.Refname,
				})
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}
