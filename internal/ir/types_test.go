package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArityOfDomain(t *testing.T) {
	tests := []struct {
		name     string
		domain   Domain
		expected int
	}{
		{"float", DomainFloat, 1},
		{"bool", DomainBool, 1},
		{"vec2", DomainVec2, 2},
		{"vec3", DomainVec3, 3},
		{"color is always RGBA", DomainColor, 4},
		{"trigger", DomainTrigger, 1},
		{"phase01", DomainPhase01, 1},
		{"domain handle", DomainDomainRef, 1},
		{"unrecognized defaults to 1", Domain("quaternion"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ArityOfDomain(tt.domain))
			assert.Equal(t, tt.expected, ArityOf(TypeDesc{World: WorldSignal, Domain: tt.domain}))
		})
	}
}

func TestArityIgnoresWorld(t *testing.T) {
	// Arity is a pure function of the domain, never of context.
	for w := range ValidWorlds {
		assert.Equal(t, 4, ArityOf(TypeDesc{World: w, Domain: DomainColor}))
	}
}

func TestKnownDomain(t *testing.T) {
	assert.True(t, KnownDomain(DomainVec2))
	assert.True(t, KnownDomain(DomainRenderTree))
	assert.False(t, KnownDomain(Domain("quaternion")))
	assert.False(t, KnownDomain(Domain("")))
}

func TestStorageOf(t *testing.T) {
	tests := []struct {
		name     string
		t        TypeDesc
		expected StorageClass
	}{
		{"signal float is packed", SignalType(DomainFloat), StorageNumeric},
		{"signal vec3 is packed", SignalType(DomainVec3), StorageNumeric},
		{"scalar is packed", ScalarType(DomainFloat), StorageNumeric},
		{"event is packed", EventType(DomainTrigger), StorageNumeric},
		{"field is boxed", FieldType(DomainVec2), StorageObject},
		{"domain handle is boxed", SpecialType(DomainDomainRef), StorageObject},
		{"render tree is boxed", SpecialType(DomainRenderTree), StorageObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StorageOf(tt.t))
		})
	}
}

func TestTypeConstructors(t *testing.T) {
	assert.Equal(t, TypeDesc{World: WorldSignal, Domain: DomainFloat}, SignalType(DomainFloat))
	assert.Equal(t, TypeDesc{World: WorldField, Domain: DomainColor}, FieldType(DomainColor))
	assert.Equal(t, TypeDesc{World: WorldScalar, Domain: DomainFloat}, ScalarType(DomainFloat))
	assert.Equal(t, TypeDesc{World: WorldEvent, Domain: DomainTrigger}, EventType(DomainTrigger))
	assert.Equal(t, TypeDesc{World: WorldSpecial, Domain: DomainCamera}, SpecialType(DomainCamera))
}
