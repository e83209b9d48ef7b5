// Package builder implements the graph builder: the single mutable authority
// while a patch's blocks are lowered into IR.
//
// A Builder is single-owner and single-pass. Per-block lowering routines
// call its methods during one traversal of the block graph; Build() then
// freezes every table into an immutable ir.BuilderProgram and consumes the
// builder. A consumed builder rejects further use, so accidental sharing
// across compilations fails loudly instead of corrupting state.
//
// Node tables are acyclic by construction: every constructor validates that
// operand IDs already exist in their table, so a cycle cannot be expressed.
package builder
