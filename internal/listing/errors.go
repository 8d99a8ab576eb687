package listing

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrProviderConflict = errors.New("provider already declared")
	ErrNoCurrentCursor  = errors.New("no current cursor")
	ErrProviderNotFound = errors.New("provider not found")
)

// ConflictError names the provider and the cursor that already owns it
type ConflictError struct {
	Provider string
	Owner    string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("'%s' is already provided by %s!", e.Provider, e.Owner)
}

func (e *ConflictError) Unwrap() error {
	return ErrProviderConflict
}

// NotFoundError names a provider no cursor declares
type NotFoundError struct {
	Provider string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("The file for provider '%s' is not found.", e.Provider)
}

func (e *NotFoundError) Unwrap() error {
	return ErrProviderNotFound
}
