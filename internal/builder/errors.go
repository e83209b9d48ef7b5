package builder

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes builder errors. Codes are stable strings; hosts key
// on them to highlight the offending block.
type ErrorCode string

const (
	// CodeBuilderConsumed indicates use of a builder after Build().
	CodeBuilderConsumed ErrorCode = "BuilderConsumed"

	// CodeBadConst indicates a constant that has no canonical encoding
	// (for example a NaN float).
	CodeBadConst ErrorCode = "BadConst"

	// CodeSinkKindMissing indicates a render sink declared without a kind.
	CodeSinkKindMissing ErrorCode = "SinkKindMissing"

	// CodeBadPathAsset indicates a path domain declared with an empty
	// asset reference.
	CodeBadPathAsset ErrorCode = "BadPathAsset"
)

// Error is a structural builder error. Structural errors abort the whole
// compilation; no partial program is returned.
type Error struct {
	Code    ErrorCode
	Message string

	// Block is the source block active when the error was raised, for
	// host-side highlighting. May be empty.
	Block string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Block != "" {
		return fmt.Sprintf("%s: %s (block=%s)", e.Code, e.Message, e.Block)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsCode reports whether err is a builder Error with the given code.
// Uses errors.As to handle wrapped errors.
func IsCode(err error, code ErrorCode) bool {
	var be *Error
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}
