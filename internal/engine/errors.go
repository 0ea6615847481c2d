package engine

import (
	"errors"
	"fmt"

	"github.com/weft-lang/weft/internal/store"
	"github.com/weft-lang/weft/internal/task"
)

// ErrorCode categorizes engine errors.
type ErrorCode string

const (
	// CodeTypeMismatch indicates an input value outside the addressed
	// editor's declared type, or a store write changing a cell's kind.
	CodeTypeMismatch ErrorCode = "TYPE_MISMATCH"

	// CodeUnknownName indicates an event addressed a name absent from the
	// current view.
	CodeUnknownName ErrorCode = "UNKNOWN_NAME"

	// CodeUnknownLabel indicates a selection label the addressed Select
	// does not currently offer.
	CodeUnknownLabel ErrorCode = "UNKNOWN_LABEL"

	// CodeDanglingStore indicates a cell reference the registry does not own.
	CodeDanglingStore ErrorCode = "DANGLING_STORE"

	// CodeNonProductiveRecursion indicates a rewrite pass returned to a tree
	// of identical shape without consuming or exposing an interactive leaf.
	CodeNonProductiveRecursion ErrorCode = "NON_PRODUCTIVE_RECURSION"
)

// EngineError is the explicit failure result of Normalize and Apply.
// It is returned, never thrown across step boundaries, and it carries the
// addressing fields needed to diagnose which leaf or cell was involved.
type EngineError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Name identifies the addressed leaf, when relevant.
	Name task.Name

	// Label identifies the rejected selection label, when relevant.
	Label string

	// StoreID identifies the involved cell, when relevant.
	StoreID store.ID
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	switch {
	case e.Name != task.Unnamed && e.Label != "":
		return fmt.Sprintf("%s: %s (name=%s, label=%s)", e.Code, e.Message, e.Name, e.Label)
	case e.Name != task.Unnamed:
		return fmt.Sprintf("%s: %s (name=%s)", e.Code, e.Message, e.Name)
	case e.StoreID != "":
		return fmt.Sprintf("%s: %s (store=%s)", e.Code, e.Message, e.StoreID)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// CodeOf extracts the error code from an error.
// Returns the empty code if the error is not an EngineError.
// Uses errors.As to handle wrapped errors.
func CodeOf(err error) ErrorCode {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ""
}

// IsNonProductive reports whether the error is a NonProductiveRecursion.
func IsNonProductive(err error) bool {
	return CodeOf(err) == CodeNonProductiveRecursion
}

func newTypeMismatch(name task.Name, msg string) *EngineError {
	return &EngineError{Code: CodeTypeMismatch, Message: msg, Name: name}
}

func newUnknownName(name task.Name) *EngineError {
	return &EngineError{
		Code:    CodeUnknownName,
		Message: "no addressable leaf with this name in the current view",
		Name:    name,
	}
}

func newUnknownLabel(name task.Name, label string) *EngineError {
	return &EngineError{
		Code:    CodeUnknownLabel,
		Message: "label is not currently offered by the addressed selection",
		Name:    name,
		Label:   label,
	}
}

func newDanglingStore(id store.ID) *EngineError {
	return &EngineError{
		Code:    CodeDanglingStore,
		Message: "store reference was not produced by this program's registry",
		StoreID: id,
	}
}

func newNonProductive(msg string) *EngineError {
	return &EngineError{Code: CodeNonProductiveRecursion, Message: msg}
}
