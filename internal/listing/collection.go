package listing

import (
	"fmt"
	"slices"

	"github.com/spf13/afero"
)

// CursorCollection is the ordered set of cursors declared by one list.
// Cursors are only ever appended.
type CursorCollection struct {
	cursors []*FileCursor
}

// NewCursorCollection returns an empty collection
func NewCursorCollection() *CursorCollection {
	return &CursorCollection{}
}

// File creates a new file cursor and registers it
func (c *CursorCollection) File() *FileCursor {
	return c.Add(&FileCursor{})
}

// Add registers cursor unless it is already part of the collection
func (c *CursorCollection) Add(cursor *FileCursor) *FileCursor {
	if !slices.Contains(c.cursors, cursor) {
		c.cursors = append(c.cursors, cursor)
	}
	return cursor
}

// Len returns the number of cursors
func (c *CursorCollection) Len() int {
	return len(c.cursors)
}

// Cursors returns the cursors in declaration order
func (c *CursorCollection) Cursors() []*FileCursor {
	return slices.Clone(c.cursors)
}

// ProvidedBy returns the first cursor that provides name, or nil
func (c *CursorCollection) ProvidedBy(name string) *FileCursor {
	for _, cursor := range c.cursors {
		if cursor.HasProvider(name) {
			return cursor
		}
	}
	return nil
}

// FileFor returns the path of the cursor that provides name
func (c *CursorCollection) FileFor(name string) (string, error) {
	cursor := c.ProvidedBy(name)
	if cursor == nil {
		return "", &NotFoundError{Provider: name}
	}
	return cursor.File(), nil
}

// Providers returns the de-duplicated union of every cursor's providers
func (c *CursorCollection) Providers() []string {
	var all []string
	for _, cursor := range c.cursors {
		for _, p := range cursor.providers {
			if !slices.Contains(all, p) {
				all = append(all, p)
			}
		}
	}
	return all
}

// Errors validates the collection: every cursor must point at an existing file
// on fs and every dependency must be provided by some cursor. An empty result
// means the list is valid.
func (c *CursorCollection) Errors(fs afero.Fs) []string {
	var errs []string
	all := c.Providers()
	for _, cursor := range c.cursors {
		if !cursor.Valid(fs) {
			errs = append(errs, fmt.Sprintf("%s is not valid!", cursor))
		}
		for _, dep := range cursor.dependencies {
			if !slices.Contains(all, dep) {
				errs = append(errs, fmt.Sprintf("%s's dependency on '%s' is not met. (%s does not exist?)", cursor, dep, dep))
			}
		}
	}
	return errs
}
