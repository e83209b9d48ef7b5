package schedule

import (
	"errors"
	"fmt"

	"github.com/brandon-fryslie/oscilla-animator-sub010/internal/ir"
)

// ErrorCode categorizes schedule compilation errors. Codes are stable
// strings hosts key on.
type ErrorCode string

const (
	// CodeStateRefMissingDecl indicates a stateful node referencing a
	// state ID absent from the state layout. Never silently defaulted.
	CodeStateRefMissingDecl ErrorCode = "StateRefMissingDecl"

	// CodeTransformChainMissingDecl indicates a transform node referencing
	// an unregistered chain ID.
	CodeTransformChainMissingDecl ErrorCode = "TransformChainMissingDecl"

	// CodeStepCycle indicates the emitted step graph contained a cycle.
	// Structurally unreachable from a well-formed builder snapshot; kept
	// as a guard on the topological sort.
	CodeStepCycle ErrorCode = "StepCycle"
)

// Error is a fatal schedule compilation error. Compilation aborts; no
// partial program is returned.
type Error struct {
	Code    ErrorCode
	Message string

	// State is the offending state ID for CodeStateRefMissingDecl.
	State ir.StateID

	// Node describes the offending node ("sig:3", "field:1", "event:0").
	Node string

	// Block is the offending node's source block, for host highlighting.
	Block string
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Node != "" {
		msg += fmt.Sprintf(" (node=%s", e.Node)
		if e.Block != "" {
			msg += fmt.Sprintf(", block=%s", e.Block)
		}
		msg += ")"
	}
	return msg
}

// IsCode reports whether err is a schedule Error with the given code.
// Uses errors.As to handle wrapped errors.
func IsCode(err error, code ErrorCode) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

// WarningCode categorizes non-fatal diagnostics.
type WarningCode string

const (
	// WarnOrphanState flags a state cell declared but never referenced.
	WarnOrphanState WarningCode = "OrphanState"

	// WarnDuplicateState flags a state ID declared more than once; the
	// first declaration wins.
	WarnDuplicateState WarningCode = "DuplicateState"

	// WarnSinkNoInputs flags a render sink declared with no inputs; it
	// lowers to a debug probe instead of an assemble contribution.
	WarnSinkNoInputs WarningCode = "SinkNoInputs"

	// WarnUnknownDomain flags a TypeDesc whose domain the compiler does
	// not recognize; arity defaulted to 1.
	WarnUnknownDomain WarningCode = "UnknownDomain"
)

// Warning is a non-fatal diagnostic. Warnings never block compilation.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
	Ref     string      `json:"ref,omitempty"`
}
