package ir

// SigNodeID identifies a node in the signal table. IDs are small integers
// local to the table; an ID is meaningless in any other table.
type SigNodeID int

// FieldNodeID identifies a node in the field table.
type FieldNodeID int

// EventNodeID identifies a node in the event table.
type EventNodeID int

// ConstID identifies an entry in the constant pool.
type ConstID int

// TransformChainID identifies a registered transform chain.
type TransformChainID int

// StateID is the symbolic identifier of a state cell. Numeric offsets are a
// schedule-compiler concern; builder output carries symbolic IDs only.
type StateID string

// NodeKind discriminates the expression node variants.
type NodeKind string

const (
	// KindConst references a constant pool entry; evaluation is a lookup.
	KindConst NodeKind = "const"

	// KindMap applies a named pure function to one operand.
	KindMap NodeKind = "map"

	// KindZip applies a named pure function to two operands.
	KindZip NodeKind = "zip"

	// KindSelect is a ternary mux: Args are [cond, t, f]. cond is truthy
	// iff cond != 0 and cond is not NaN; negative zero is falsy. Any
	// non-truthy cond selects f.
	KindSelect NodeKind = "select"

	// KindTransform applies a registered chain of scale/bias steps to one
	// operand.
	KindTransform NodeKind = "transform"

	// KindStateful reads a state cell's previous value, combines it with
	// the current operand under a named op, and writes back.
	KindStateful NodeKind = "stateful"

	// KindBusCombine merges N publishers' values under an explicit policy.
	KindBusCombine NodeKind = "busCombine"

	// KindBroadcastSig lifts a signal value to every element of a domain.
	// Field table only.
	KindBroadcastSig NodeKind = "broadcastSig"

	// KindTimeAbsMs is the absolute model-time leaf. Signal table only.
	KindTimeAbsMs NodeKind = "timeAbsMs"

	// KindPhase01 is the cyclic-phase leaf. Signal table only.
	KindPhase01 NodeKind = "phase01"

	// KindProgress01 is the finite-progress leaf. Signal table only.
	KindProgress01 NodeKind = "progress01"

	// KindWrapEvent fires when the time model wraps or ends. Event table
	// only.
	KindWrapEvent NodeKind = "wrapEvent"
)

// BusPolicy names the combination rule for multi-publisher buses.
type BusPolicy string

const (
	BusSum     BusPolicy = "sum"
	BusAverage BusPolicy = "average"
	BusMax     BusPolicy = "max"
	BusMin     BusPolicy = "min"
	BusLast    BusPolicy = "last"
	BusProduct BusPolicy = "product"
)

// ValidBusPolicies defines the closed policy enumeration.
var ValidBusPolicies = map[BusPolicy]bool{
	BusSum:     true,
	BusAverage: true,
	BusMax:     true,
	BusMin:     true,
	BusLast:    true,
	BusProduct: true,
}

// StateOffsetUnresolved marks a stateful node whose symbolic StateID has not
// yet been assigned a numeric offset by the schedule compiler.
const StateOffsetUnresolved = -1

// SigNode is one immutable node in the signal expression table.
//
// Fields beyond ID, Kind, Type and Block are meaningful only for the kinds
// documented on them; unused fields hold zero values.
type SigNode struct {
	ID   SigNodeID `json:"id"`
	Kind NodeKind  `json:"kind"`
	Type TypeDesc  `json:"type"`

	// Args are operand node IDs, roles fixed per kind:
	// map [x], zip [a b], select [cond t f], transform [x], stateful [x],
	// busCombine [publishers...].
	Args []SigNodeID `json:"args,omitempty"`

	// Const is the pool entry for KindConst.
	Const ConstID `json:"const,omitempty"`

	// Fn is the symbolic function ID for KindMap/KindZip, resolved by the
	// runtime's function table.
	Fn string `json:"fn,omitempty"`

	// Chain is the registered transform chain for KindTransform.
	Chain TransformChainID `json:"chain,omitempty"`

	// State and Op describe a KindStateful node. StateOffset is rewritten
	// by the schedule compiler; StateOffsetUnresolved until then.
	State       StateID `json:"state,omitempty"`
	Op          string  `json:"op,omitempty"`
	StateOffset int     `json:"state_offset,omitempty"`

	// Bus and Policy describe a KindBusCombine node. Buses are identified
	// by index once resolved, never by name.
	Bus    int       `json:"bus,omitempty"`
	Policy BusPolicy `json:"policy,omitempty"`

	// Block is diagnostic provenance: the source block active when the
	// node was created. No effect on semantics.
	Block string `json:"block,omitempty"`
}

// FieldNode is one immutable node in the field expression table.
type FieldNode struct {
	ID   FieldNodeID `json:"id"`
	Kind NodeKind    `json:"kind"`
	Type TypeDesc    `json:"type"`

	// Args are operand field node IDs with the same per-kind roles as
	// SigNode.Args.
	Args []FieldNodeID `json:"args,omitempty"`

	Const ConstID          `json:"const,omitempty"`
	Fn    string           `json:"fn,omitempty"`
	Chain TransformChainID `json:"chain,omitempty"`

	State       StateID `json:"state,omitempty"`
	Op          string  `json:"op,omitempty"`
	StateOffset int     `json:"state_offset,omitempty"`

	Bus    int       `json:"bus,omitempty"`
	Policy BusPolicy `json:"policy,omitempty"`

	// Sig and Domain describe a KindBroadcastSig node: the signal operand
	// lifted over every element of the domain.
	Sig    SigNodeID `json:"sig,omitempty"`
	Domain DomainID  `json:"domain,omitempty"`

	Block string `json:"block,omitempty"`
}

// EventNode is one immutable node in the event expression table.
type EventNode struct {
	ID   EventNodeID `json:"id"`
	Kind NodeKind    `json:"kind"`
	Type TypeDesc    `json:"type"`

	Args []EventNodeID `json:"args,omitempty"`

	Const ConstID `json:"const,omitempty"`
	Fn    string  `json:"fn,omitempty"`

	State       StateID `json:"state,omitempty"`
	Op          string  `json:"op,omitempty"`
	StateOffset int     `json:"state_offset,omitempty"`

	Bus    int       `json:"bus,omitempty"`
	Policy BusPolicy `json:"policy,omitempty"`

	Block string `json:"block,omitempty"`
}

// TransformStep is one simple numeric step in a transform chain.
type TransformStep struct {
	Op    string  `json:"op"` // "scale" | "bias"
	Value float64 `json:"value"`
}

// TransformChain is a precompiled ordered chain of numeric steps, registered
// once and referenced by ID so identical chains are reused.
type TransformChain struct {
	ID    TransformChainID `json:"id"`
	Steps []TransformStep  `json:"steps"`
}
