package model

import (
	"errors"
	"fmt"
)

// ErrNotFound matches every lookup miss.
var ErrNotFound = errors.New("not found")

// ErrDynamicLength matches static length requests on dynamically sized classes.
var ErrDynamicLength = errors.New("no fixed length")

// NotFoundError is a recoverable lookup miss.
type NotFoundError struct {
	Kind  string // "enum", "entry", "interface", "member", "class"
	Scope string // enclosing enum/interface name, if any
	Key   string
}

func (e *NotFoundError) Error() string {
	if e.Scope != "" {
		return fmt.Sprintf("%s: no %s %s", e.Scope, e.Kind, e.Key)
	}
	return fmt.Sprintf("no %s %s", e.Kind, e.Key)
}

// Is matches ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// LengthError reports a static length request on a class that has none.
type LengthError struct {
	Class   string
	Version WireVersion
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("no fixed length for class %s, version %s", e.Class, e.Version)
}

// Is matches ErrDynamicLength.
func (e *LengthError) Is(target error) bool {
	return target == ErrDynamicLength
}

// RoleConflictError reports a member whose role differs between versions.
type RoleConflictError struct {
	Interface string
	Member    string
	Version   WireVersion
	Want, Got Role
}

func (e *RoleConflictError) Error() string {
	return fmt.Sprintf("%s.%s: role %s in version %s conflicts with earlier role %s",
		e.Interface, e.Member, e.Got, e.Version, e.Want)
}

// UnresolvedEnumError reports an enum-qualified value with no matching entry.
// It is only returned when strict enum resolution is enabled.
type UnresolvedEnumError struct {
	Enum    string
	Version WireVersion
	Value   int64
}

func (e *UnresolvedEnumError) Error() string {
	return fmt.Sprintf("enum %s: no entry with version %s, value %d", e.Enum, e.Version, e.Value)
}

// BuildError aborts a model build. Name is the canonical (wire) name of the
// failing interface or enum; Version is zero when the failure is not tied to a
// single version.
type BuildError struct {
	Name    string
	Version WireVersion
	Err     error
}

func (e *BuildError) Error() string {
	if e.Version != 0 {
		return fmt.Sprintf("build failed at %s (version %s, wire %d): %v", e.Name, e.Version, int(e.Version), e.Err)
	}
	return fmt.Sprintf("build failed at %s: %v", e.Name, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// IsBuildError reports whether err aborted a build.
func IsBuildError(err error) bool {
	var be *BuildError
	return errors.As(err, &be)
}

// Diagnostic records a degraded but recoverable resolution.
type Diagnostic struct {
	Interface string      `json:"interface"`
	Member    string      `json:"member,omitempty"`
	Version   WireVersion `json:"version"`
	Message   string      `json:"message"`
}

func (d Diagnostic) String() string {
	if d.Member != "" {
		return fmt.Sprintf("%s.%s (%s): %s", d.Interface, d.Member, d.Version, d.Message)
	}
	return fmt.Sprintf("%s (%s): %s", d.Interface, d.Version, d.Message)
}
