// Package schedule turns a frozen builder snapshot into a deterministic,
// cacheable per-frame execution plan.
//
// Compilation is a pure batch transformation: given the same snapshot it
// produces an identical CompiledProgram, byte for byte. The determinism
// contract is explicit - the only inputs allowed to influence step ordering
// are declaration order and the lexicographic step-ID tie-break of the
// topological sort. Map iteration order never leaks into output.
//
// Failure modes: a stateful node whose symbolic state ID was never declared
// is fatal (StateRefMissingDecl), as is a transform node referencing an
// unregistered chain (TransformChainMissingDecl). Everything else is
// best-effort: orphan declarations surface as warnings and debug-probe
// steps that are no-ops when disabled.
package schedule
