// Package ir provides the intermediate representation for compiled Oscilla
// patches.
//
// This package contains type definitions and pure functions only. All other
// internal packages import ir; ir imports nothing internal. This ensures IR
// remains the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Expression nodes are immutable once created and reference operands by
//     small integer IDs local to their own table, never by name.
//   - Node tables are append-only within one compilation; acyclicity is
//     structural (operands must already exist when a node is appended).
//   - All cross-node data flow goes through value slots; bundle types (vec2,
//     vec3, color) occupy consecutive slots.
//   - Identity is content-addressed: canonical JSON (RFC 8785 key ordering,
//     NFC strings, no HTML escaping) hashed with domain separation.
//   - All JSON tags use snake_case.
package ir
