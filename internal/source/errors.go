package source

import (
	"errors"
	"fmt"
	"strings"
)

// SourceError represents a source-related error
type SourceError struct {
	Op     string // operation
	Source string // source URL
	Path   string // local checkout or remote file path
	Ref    string // pinned ref, when reading
	Err    error  // underlying error
}

func (e *SourceError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Source != "" {
		fmt.Fprintf(&b, " %s", e.Source)
	}
	if e.Path != "" {
		fmt.Fprintf(&b, " %s", e.Path)
	}
	if e.Ref != "" {
		fmt.Fprintf(&b, " at %s", e.Ref)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Common errors
var (
	ErrSourceExists     = errors.New("source has already been defined")
	ErrSourceDownload   = errors.New("unable to download source")
	ErrFileNotAvailable = errors.New("file is not available on ref")
)
