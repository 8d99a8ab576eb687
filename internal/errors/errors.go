package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrNotADirectory = errors.New("expected a directory, found a file")
	ErrInvalidTarget = errors.New("target is a directory")
	ErrDriftDetected = errors.New("packaged files have drifted")
	ErrChecksFailed  = errors.New("validation failed")
)

// PathError wraps errors with path context
type PathError struct {
	Path string
	Op   string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// NewPathError creates a new path error
func NewPathError(path, op string, err error) *PathError {
	return &PathError{Path: path, Op: op, Err: err}
}

// DriftError reports how many recorded targets no longer match the manifest
type DriftError struct {
	Manifest string
	Count    int
}

func (e *DriftError) Error() string {
	return fmt.Sprintf("%s: %d targets missing or changed", e.Manifest, e.Count)
}

func (e *DriftError) Unwrap() error {
	return ErrDriftDetected
}

// NewDriftError creates a new drift error
func NewDriftError(manifest string, count int) *DriftError {
	return &DriftError{Manifest: manifest, Count: count}
}

// CheckError reports a batch of validation findings
type CheckError struct {
	Subject  string
	Findings []string
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("%s has %d errors", e.Subject, len(e.Findings))
}

func (e *CheckError) Unwrap() error {
	return ErrChecksFailed
}

// NewCheckError creates a new check error
func NewCheckError(subject string, findings []string) *CheckError {
	return &CheckError{Subject: subject, Findings: findings}
}
