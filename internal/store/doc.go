// Package store provides a durable archive of compiled programs.
//
// Uses SQLite with WAL mode for concurrent read access. Programs are keyed
// by (patch_id, patch_revision); bodies are the compact serialized encoding
// and carry a content-addressed digest, so hosts can diff revisions and
// detect byte-identical recompiles without decoding.
package store
