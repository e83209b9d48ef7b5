package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	HashDomainElement = "oscilla/element/v1"
	HashDomainProgram = "oscilla/program/v1"
	HashDomainConst   = "oscilla/const/v1"
)

// ElementIDLength is the length of a stable per-element identifier.
const ElementIDLength = 8

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte separator prevents
// domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// SyntheticElementID derives the stable identifier of element index in a
// synthetic domain of n elements built with the given seed.
//
// The ID is an 8-character hex string, a pure function of (seed, index).
// Recompiling the same (n, seed) pair reproduces the same IDs, which keeps
// per-element randomness visually consistent when unrelated parameters
// change.
func SyntheticElementID(seed int64, index int) string {
	data := fmt.Sprintf("n:%d:%d", seed, index)
	return hashWithDomain(HashDomainElement, []byte(data))[:ElementIDLength]
}

// PathElementID derives the stable identifier of element index sampled from
// a path asset. A pure function of (path, index).
func PathElementID(path string, index int) string {
	data := fmt.Sprintf("svg:%s:%d", path, index)
	return hashWithDomain(HashDomainElement, []byte(data))[:ElementIDLength]
}

// ConstKey computes the structural-equality dedup key for a constant value.
// Two values with equal canonical encodings share one pool entry.
func ConstKey(v Value) (string, error) {
	canonical, err := MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("ConstKey: failed to marshal: %w", err)
	}
	// The canonical bytes themselves are the key; hashing would only
	// obscure collisions in tests.
	return string(canonical), nil
}

// ProgramDigest computes the content-addressed digest of a serialized
// program's canonical encoding. Stable across recompiles of identical input.
func ProgramDigest(canonical []byte) string {
	return hashWithDomain(HashDomainProgram, canonical)
}
