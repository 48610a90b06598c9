package core

import (
	"errors"
	"fmt"

	"github.com/huangsam/analyzer/schema"
)

// Sentinel errors for project-level validation.
var (
	ErrNameRequired = errors.New("project name is required")
	ErrNoPath       = errors.New("project has no path; provide one to save")

	ErrSpecimenNameRequired = errors.New("specimen name is required")

	// ErrCheckFailed is returned by ExecuteCheck when a specimen is below the threshold.
	ErrCheckFailed = errors.New("one or more specimens scored below the threshold")
)

// NotFoundError reports a property or specimen that does not exist.
type NotFoundError struct {
	Kind string // "property" or "specimen"
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// DuplicatePropertyError reports an attempt to add a property whose name is taken.
type DuplicatePropertyError struct {
	Name string
}

func (e *DuplicatePropertyError) Error() string {
	return fmt.Sprintf("property %q already exists", e.Name)
}

// InvalidPropertyError reports a property definition that cannot be accepted.
type InvalidPropertyError struct {
	Name   string
	Reason string
}

func (e *InvalidPropertyError) Error() string {
	return fmt.Sprintf("invalid property %q: %s", e.Name, e.Reason)
}

// RenameConflictError reports a rejected property rename. Specimen is empty
// when the conflict is with another property rather than a specimen value.
type RenameConflictError struct {
	OldName  string
	NewName  string
	Specimen string
}

func (e *RenameConflictError) Error() string {
	if e.Specimen == "" {
		return fmt.Sprintf("cannot rename property %q to %q: a property with that name exists", e.OldName, e.NewName)
	}
	return fmt.Sprintf("cannot rename property %q to %q: specimen %q already has a value for %q", e.OldName, e.NewName, e.Specimen, e.NewName)
}

// RetypeConflictError reports a rejected property retype.
type RetypeConflictError struct {
	Property string
	Specimen string
	OldType  schema.PropertyType
	NewType  schema.PropertyType
	Err      error
}

func (e *RetypeConflictError) Error() string {
	return fmt.Sprintf("cannot change property %q from %s to %s: specimen %q: %v", e.Property, e.OldType, e.NewType, e.Specimen, e.Err)
}

func (e *RetypeConflictError) Unwrap() error { return e.Err }

// ValueError reports a specimen value that does not fit its property.
type ValueError struct {
	Property string
	Specimen string
	Err      error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("value for property %q of specimen %q: %v", e.Property, e.Specimen, e.Err)
}

func (e *ValueError) Unwrap() error { return e.Err }

// LoadError reports a project file that could not be read or decoded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("cannot load project: %v", e.Err)
	}
	return fmt.Sprintf("cannot load project %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
