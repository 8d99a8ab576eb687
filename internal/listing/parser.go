package listing

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	apperrors "github.com/samhoang/capable/internal/errors"
	"github.com/samhoang/capable/internal/logging"
	"github.com/samhoang/capable/internal/script"
)

// ListParser evaluates a capability list into a CursorCollection
type ListParser struct {
	name     string
	contents []byte
	format   script.Format
	fs       afero.Fs
	logger   *log.Logger

	cursors   *CursorCollection
	evaluated bool
	err       error
}

// Option configures a ListParser
type Option func(*ListParser)

// WithFs sets the filesystem file cursors are validated against
func WithFs(fs afero.Fs) Option {
	return func(p *ListParser) { p.fs = fs }
}

// WithLogger sets the logger used for debug tracing
func WithLogger(logger *log.Logger) Option {
	return func(p *ListParser) { p.logger = logger }
}

// WithFormat overrides the format derived from the list's name
func WithFormat(f script.Format) Option {
	return func(p *ListParser) { p.format = f }
}

// NewListParser creates a parser for contents. name is used for messages and,
// through its extension, to pick the format.
func NewListParser(name string, contents []byte, opts ...Option) *ListParser {
	p := &ListParser{
		name:     name,
		contents: contents,
		format:   script.FormatFor(name),
		fs:       afero.NewOsFs(),
		logger:   logging.Discard(),
		cursors:  NewCursorCollection(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the list's name
func (p *ListParser) Name() string {
	return p.name
}

// Cursors returns the collection, which stays empty until Evaluate runs
func (p *ListParser) Cursors() *CursorCollection {
	return p.cursors
}

// Evaluate builds the collection. Only the first call does any work; later
// calls return the same collection and error.
func (p *ListParser) Evaluate() (*CursorCollection, error) {
	if p.evaluated {
		return p.cursors, p.err
	}
	p.evaluated = true

	p.logger.Debug("evaluating list", "name", p.name, "format", p.format)
	builder := NewBuilder(p.cursors)
	if p.format == script.FormatScript {
		p.err = p.evaluateScript(builder)
	} else {
		p.err = p.evaluateRecords(builder)
	}
	if p.err != nil {
		p.err = fmt.Errorf("%s: %w", p.name, p.err)
	}
	return p.cursors, p.err
}

func (p *ListParser) evaluateScript(builder *Builder) error {
	prog, err := script.Parse(string(p.contents))
	if err != nil {
		return err
	}
	return script.Run(prog, builder.Funcs())
}

func (p *ListParser) evaluateRecords(builder *Builder) error {
	records, err := DecodeRecords(p.format, p.name, p.contents)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if _, err := builder.Define(rec); err != nil {
			return err
		}
	}
	return nil
}

// Check evaluates the list and validates it. Findings go to errOut and the
// returned error is an errors.CheckError; a clean list prints
// "No errors found!" to out.
func (p *ListParser) Check(out, errOut io.Writer) error {
	cursors, err := p.Evaluate()
	if err != nil {
		return err
	}

	findings := cursors.Errors(p.fs)
	if len(findings) > 0 {
		fmt.Fprintln(errOut, strings.Join(findings, "\n"))
		return apperrors.NewCheckError(p.name, findings)
	}
	fmt.Fprintln(out, "No errors found!")
	return nil
}
