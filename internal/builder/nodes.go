package builder

import (
	"github.com/brandon-fryslie/oscilla-animator-sub010/internal/ir"
)

// Node constructors append immutable nodes to the three expression tables.
// Output types are declared explicitly by the caller, never inferred from
// operands. Every constructor validates operand existence, which is what
// makes the tables acyclic by construction.

func (b *Builder) appendSig(n ir.SigNode) ir.SigNodeID {
	b.mustBeLive()
	n.ID = ir.SigNodeID(len(b.sig))
	n.Block = b.currentBlock
	b.sig = append(b.sig, n)
	return n.ID
}

func (b *Builder) appendField(n ir.FieldNode) ir.FieldNodeID {
	b.mustBeLive()
	n.ID = ir.FieldNodeID(len(b.field))
	n.Block = b.currentBlock
	b.field = append(b.field, n)
	return n.ID
}

func (b *Builder) appendEvent(n ir.EventNode) ir.EventNodeID {
	b.mustBeLive()
	n.ID = ir.EventNodeID(len(b.event))
	n.Block = b.currentBlock
	b.event = append(b.event, n)
	return n.ID
}

// SigConst creates a signal node reading a constant pool entry.
func (b *Builder) SigConst(c ir.ConstID, t ir.TypeDesc) ir.SigNodeID {
	return b.appendSig(ir.SigNode{Kind: ir.KindConst, Type: t, Const: c})
}

// SigTimeAbsMs creates the absolute model-time leaf.
func (b *Builder) SigTimeAbsMs() ir.SigNodeID {
	return b.appendSig(ir.SigNode{Kind: ir.KindTimeAbsMs, Type: ir.SignalType(ir.DomainTimeMs)})
}

// SigPhase01 creates the cyclic-phase leaf.
func (b *Builder) SigPhase01() ir.SigNodeID {
	return b.appendSig(ir.SigNode{Kind: ir.KindPhase01, Type: ir.SignalType(ir.DomainPhase01)})
}

// SigProgress01 creates the finite-progress leaf.
func (b *Builder) SigProgress01() ir.SigNodeID {
	return b.appendSig(ir.SigNode{Kind: ir.KindProgress01, Type: ir.SignalType(ir.DomainProgress01)})
}

// SigMap applies the named pure function fn to one operand.
func (b *Builder) SigMap(fn string, x ir.SigNodeID, t ir.TypeDesc) ir.SigNodeID {
	b.mustHaveSig(x)
	return b.appendSig(ir.SigNode{Kind: ir.KindMap, Type: t, Fn: fn, Args: []ir.SigNodeID{x}})
}

// SigZip applies the named pure function fn to two operands.
func (b *Builder) SigZip(fn string, a, x ir.SigNodeID, t ir.TypeDesc) ir.SigNodeID {
	b.mustHaveSig(a)
	b.mustHaveSig(x)
	return b.appendSig(ir.SigNode{Kind: ir.KindZip, Type: t, Fn: fn, Args: []ir.SigNodeID{a, x}})
}

// SigSelect creates a ternary mux. cond is truthy iff cond != 0 and cond is
// not NaN; any non-truthy cond (including negative zero) selects f.
func (b *Builder) SigSelect(cond, tval, fval ir.SigNodeID, t ir.TypeDesc) ir.SigNodeID {
	b.mustHaveSig(cond)
	b.mustHaveSig(tval)
	b.mustHaveSig(fval)
	return b.appendSig(ir.SigNode{Kind: ir.KindSelect, Type: t, Args: []ir.SigNodeID{cond, tval, fval}})
}

// SigTransform applies a registered transform chain to one operand.
func (b *Builder) SigTransform(chain ir.TransformChainID, x ir.SigNodeID, t ir.TypeDesc) ir.SigNodeID {
	b.mustHaveSig(x)
	return b.appendSig(ir.SigNode{Kind: ir.KindTransform, Type: t, Chain: chain, Args: []ir.SigNodeID{x}})
}

// SigStateful combines a state cell's previous value with the operand under
// the named op and writes back. The StateID must have been declared through
// AllocStateID; the schedule compiler fails with StateRefMissingDecl
// otherwise.
func (b *Builder) SigStateful(state ir.StateID, op string, x ir.SigNodeID, t ir.TypeDesc) ir.SigNodeID {
	b.mustHaveSig(x)
	return b.appendSig(ir.SigNode{
		Kind:        ir.KindStateful,
		Type:        t,
		State:       state,
		Op:          op,
		StateOffset: ir.StateOffsetUnresolved,
		Args:        []ir.SigNodeID{x},
	})
}

// SigBusCombine merges the publishers' values under the bus's policy.
func (b *Builder) SigBusCombine(bus int, policy ir.BusPolicy, publishers []ir.SigNodeID, t ir.TypeDesc) ir.SigNodeID {
	for _, p := range publishers {
		b.mustHaveSig(p)
	}
	return b.appendSig(ir.SigNode{Kind: ir.KindBusCombine, Type: t, Bus: bus, Policy: policy, Args: publishers})
}

// FieldConst creates a field node reading a constant pool entry.
func (b *Builder) FieldConst(c ir.ConstID, t ir.TypeDesc) ir.FieldNodeID {
	return b.appendField(ir.FieldNode{Kind: ir.KindConst, Type: t, Const: c})
}

// FieldMap applies the named pure function fn to one field operand.
func (b *Builder) FieldMap(fn string, x ir.FieldNodeID, t ir.TypeDesc) ir.FieldNodeID {
	b.mustHaveField(x)
	return b.appendField(ir.FieldNode{Kind: ir.KindMap, Type: t, Fn: fn, Args: []ir.FieldNodeID{x}})
}

// FieldZip applies the named pure function fn to two field operands.
func (b *Builder) FieldZip(fn string, a, x ir.FieldNodeID, t ir.TypeDesc) ir.FieldNodeID {
	b.mustHaveField(a)
	b.mustHaveField(x)
	return b.appendField(ir.FieldNode{Kind: ir.KindZip, Type: t, Fn: fn, Args: []ir.FieldNodeID{a, x}})
}

// FieldSelect creates a ternary mux over field operands, with the same
// truthiness rule as SigSelect.
func (b *Builder) FieldSelect(cond, tval, fval ir.FieldNodeID, t ir.TypeDesc) ir.FieldNodeID {
	b.mustHaveField(cond)
	b.mustHaveField(tval)
	b.mustHaveField(fval)
	return b.appendField(ir.FieldNode{Kind: ir.KindSelect, Type: t, Args: []ir.FieldNodeID{cond, tval, fval}})
}

// FieldTransform applies a registered transform chain to one field operand.
func (b *Builder) FieldTransform(chain ir.TransformChainID, x ir.FieldNodeID, t ir.TypeDesc) ir.FieldNodeID {
	b.mustHaveField(x)
	return b.appendField(ir.FieldNode{Kind: ir.KindTransform, Type: t, Chain: chain, Args: []ir.FieldNodeID{x}})
}

// FieldStateful is the field-world stateful combinator.
func (b *Builder) FieldStateful(state ir.StateID, op string, x ir.FieldNodeID, t ir.TypeDesc) ir.FieldNodeID {
	b.mustHaveField(x)
	return b.appendField(ir.FieldNode{
		Kind:        ir.KindStateful,
		Type:        t,
		State:       state,
		Op:          op,
		StateOffset: ir.StateOffsetUnresolved,
		Args:        []ir.FieldNodeID{x},
	})
}

// FieldBusCombine merges field publishers under the bus's policy.
func (b *Builder) FieldBusCombine(bus int, policy ir.BusPolicy, publishers []ir.FieldNodeID, t ir.TypeDesc) ir.FieldNodeID {
	for _, p := range publishers {
		b.mustHaveField(p)
	}
	return b.appendField(ir.FieldNode{Kind: ir.KindBusCombine, Type: t, Bus: bus, Policy: policy, Args: publishers})
}

// FieldBroadcast lifts a signal value to every element of a domain.
func (b *Builder) FieldBroadcast(sig ir.SigNodeID, domain ir.DomainID, t ir.TypeDesc) ir.FieldNodeID {
	b.mustHaveSig(sig)
	b.mustHaveDomain(domain)
	return b.appendField(ir.FieldNode{Kind: ir.KindBroadcastSig, Type: t, Sig: sig, Domain: domain})
}

// EventWrap creates the time-model wrap/end event leaf.
func (b *Builder) EventWrap() ir.EventNodeID {
	return b.appendEvent(ir.EventNode{Kind: ir.KindWrapEvent, Type: ir.EventType(ir.DomainTrigger)})
}

// EventMap applies the named pure function fn to one event operand.
func (b *Builder) EventMap(fn string, x ir.EventNodeID, t ir.TypeDesc) ir.EventNodeID {
	b.mustHaveEvent(x)
	return b.appendEvent(ir.EventNode{Kind: ir.KindMap, Type: t, Fn: fn, Args: []ir.EventNodeID{x}})
}

// EventStateful is the event-world stateful combinator (pulse dividers,
// sample-and-hold triggers).
func (b *Builder) EventStateful(state ir.StateID, op string, x ir.EventNodeID, t ir.TypeDesc) ir.EventNodeID {
	b.mustHaveEvent(x)
	return b.appendEvent(ir.EventNode{
		Kind:        ir.KindStateful,
		Type:        t,
		State:       state,
		Op:          op,
		StateOffset: ir.StateOffsetUnresolved,
		Args:        []ir.EventNodeID{x},
	})
}

// EventBusCombine merges event publishers under the bus's policy.
func (b *Builder) EventBusCombine(bus int, policy ir.BusPolicy, publishers []ir.EventNodeID, t ir.TypeDesc) ir.EventNodeID {
	for _, p := range publishers {
		b.mustHaveEvent(p)
	}
	return b.appendEvent(ir.EventNode{Kind: ir.KindBusCombine, Type: t, Bus: bus, Policy: policy, Args: publishers})
}
