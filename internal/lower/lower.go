// Package lower defines the input boundary of the compiler: the context
// handed to per-block lowering routines during the single traversal of a
// patch's block graph.
//
// The block library itself (one lowering routine per block kind) lives
// outside this repository. This package carries the contract plus a small
// set of reference lowerings used by tests and the demo command.
package lower

import (
	"fmt"

	"github.com/brandon-fryslie/oscilla-animator-sub010/internal/builder"
	"github.com/brandon-fryslie/oscilla-animator-sub010/internal/ir"
)

// Ctx is what a per-block lowering routine receives: the builder handle,
// the block's declared input/output types, and a pre-allocated seed
// constant shared by every block of the compilation.
type Ctx struct {
	B *builder.Builder

	// BlockID identifies the block being lowered; the builder's
	// provenance context is set to it for the duration of the call.
	BlockID string

	// InputTypes and OutputTypes are the block's declared port types,
	// keyed by port name.
	InputTypes  map[string]ir.TypeDesc
	OutputTypes map[string]ir.TypeDesc

	// SeedConst is the pre-allocated constant holding the compilation
	// seed.
	SeedConst ir.ConstID
}

// OutputRef is one produced output of a lowering routine.
type OutputRef struct {
	Port string
	Slot ir.SlotID
	Type ir.TypeDesc
}

// Declares carries a block's domain/time-model/render-sink announcements
// back to the compiler driver.
type Declares struct {
	Domains   []ir.DomainID
	TimeModel *ir.TimeModel
	Sinks     []int
}

// Result is what a lowering routine returns.
type Result struct {
	Outputs  []OutputRef
	Declares Declares
}

// Func is the signature of a per-block lowering routine.
type Func func(ctx *Ctx) (*Result, error)

// NewCtx prepares a lowering context for one block and activates its
// provenance on the builder.
func NewCtx(b *builder.Builder, blockID string, seed ir.ConstID) *Ctx {
	b.SetCurrentBlock(blockID)
	return &Ctx{
		B:           b,
		BlockID:     blockID,
		InputTypes:  map[string]ir.TypeDesc{},
		OutputTypes: map[string]ir.TypeDesc{},
		SeedConst:   seed,
	}
}

// Done clears the provenance context. Callers run it after each block.
func (c *Ctx) Done() {
	c.B.ClearCurrentBlock()
}

// RequireInput returns the declared type of a named input, or a descriptive
// error the driver reports against the block. Per-block validation fails
// fast here, before anything reaches the schedule compiler.
func (c *Ctx) RequireInput(name string) (ir.TypeDesc, error) {
	t, ok := c.InputTypes[name]
	if !ok {
		return ir.TypeDesc{}, fmt.Errorf("block %s: required input %q is not connected", c.BlockID, name)
	}
	return t, nil
}
