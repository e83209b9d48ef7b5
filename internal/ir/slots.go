package ir

import (
	"encoding/json"
	"fmt"
)

// SlotID is an index into the flat per-frame value store. A slot is the only
// channel through which one node's output reaches another node's input; the
// indirection is what lets the schedule reorder and cache freely.
//
// Bundle types occupy ArityOf(type) consecutive slots starting at their
// SlotID, so the runtime can treat them as a fixed-width record.
type SlotID int

// SlotMeta records per-slot metadata. Storage decides packed-array vs boxed
// storage in the runtime; the rest is diagnostics only.
type SlotMeta struct {
	Slot    SlotID       `json:"slot"`
	Width   int          `json:"width"`
	Storage StorageClass `json:"storage"`

	// DebugName and Type are diagnostic only; absence never affects
	// semantics.
	DebugName string    `json:"debug_name,omitempty"`
	Type      *TypeDesc `json:"type,omitempty"`

	// Block is diagnostic provenance: the source block active when the
	// slot was allocated.
	Block string `json:"block,omitempty"`
}

// StateCell is one entry of the packed cross-frame state buffer layout.
//
// Cells are appended at build time with symbolic IDs only; the schedule
// compiler assigns Offset sequentially in allocation order. Offset
// assignment is a pure, order-preserving function of allocation order, so
// recompiling identical input yields identical offsets (critical for
// save/restore and diffing).
type StateCell struct {
	ID        StateID  `json:"id"`
	Type      TypeDesc `json:"type"`
	Initial   Value    `json:"initial,omitempty"`
	Offset    int      `json:"offset"`
	DebugName string   `json:"debug_name,omitempty"`
}

// stateCellJSON mirrors StateCell with the interface-typed Initial carried
// as raw JSON.
type stateCellJSON struct {
	ID        StateID         `json:"id"`
	Type      TypeDesc        `json:"type"`
	Initial   json.RawMessage `json:"initial,omitempty"`
	Offset    int             `json:"offset"`
	DebugName string          `json:"debug_name,omitempty"`
}

// MarshalJSON implements json.Marshaler, encoding Initial through the
// canonical Value rules.
func (c StateCell) MarshalJSON() ([]byte, error) {
	out := stateCellJSON{
		ID:        c.ID,
		Type:      c.Type,
		Offset:    c.Offset,
		DebugName: c.DebugName,
	}
	if c.Initial != nil {
		raw, err := MarshalValue(c.Initial)
		if err != nil {
			return nil, fmt.Errorf("state cell %q initial: %w", c.ID, err)
		}
		out.Initial = raw
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *StateCell) UnmarshalJSON(data []byte) error {
	var raw stateCellJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.ID = raw.ID
	c.Type = raw.Type
	c.Offset = raw.Offset
	c.DebugName = raw.DebugName
	c.Initial = nil
	if len(raw.Initial) > 0 {
		v, err := UnmarshalValue(raw.Initial)
		if err != nil {
			return fmt.Errorf("state cell %q initial: %w", raw.ID, err)
		}
		c.Initial = v
	}
	return nil
}

// BusDef describes one named aggregation point. Publishers reference buses
// by Index once resolved; Name exists for diagnostics and host UI.
type BusDef struct {
	Index  int       `json:"index"`
	Name   string    `json:"name,omitempty"`
	Type   TypeDesc  `json:"type"`
	Policy BusPolicy `json:"policy"`
}

// SlotBinding binds a produced expression node's output to the value slot
// where its result lives at runtime.
type SlotBinding struct {
	Slot SlotID `json:"slot"`
	Node int    `json:"node"`
}

// ConstPool is the deduplicated, append-only, index-stable table of literal
// values. Two structurally equal values share one entry.
type ConstPool []Value

// UnmarshalJSON implements json.Unmarshaler for the interface-typed pool.
func (p *ConstPool) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = make(ConstPool, len(raw))
	for i, r := range raw {
		v, err := UnmarshalValue(r)
		if err != nil {
			return fmt.Errorf("const pool[%d]: %w", i, err)
		}
		(*p)[i] = v
	}
	return nil
}

// MarshalJSON implements json.Marshaler using canonical Value encoding.
func (p ConstPool) MarshalJSON() ([]byte, error) {
	return marshalValueArray(VArray(p))
}
