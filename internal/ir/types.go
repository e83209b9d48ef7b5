package ir

// World partitions the universe of values flowing through a patch.
//
// It is a closed enumeration: every TypeDesc carries exactly one of the
// constants below, and storage-class lookup is total over the set.
type World string

const (
	// WorldSignal is a value with exactly one instance per frame.
	WorldSignal World = "signal"

	// WorldField is a value with one instance per domain element per frame.
	WorldField World = "field"

	// WorldScalar is a compile-time constant.
	WorldScalar World = "scalar"

	// WorldEvent is a discrete trigger.
	WorldEvent World = "event"

	// WorldSpecial is an opaque handle (domain, camera, render tree).
	WorldSpecial World = "special"
)

// ValidWorlds defines the closed world enumeration.
var ValidWorlds = map[World]bool{
	WorldSignal:  true,
	WorldField:   true,
	WorldScalar:  true,
	WorldEvent:   true,
	WorldSpecial: true,
}

// Domain names the payload shape of a value.
//
// The enumeration is open (block libraries may introduce new domains) but
// validated: arity lookup is total, defaulting to 1 for unrecognized domains,
// and KnownDomain reports whether a domain is one the compiler understands.
type Domain string

const (
	DomainFloat      Domain = "float"
	DomainBool       Domain = "bool"
	DomainVec2       Domain = "vec2"
	DomainVec3       Domain = "vec3"
	DomainColor      Domain = "color"
	DomainString     Domain = "string"
	DomainTrigger    Domain = "trigger"
	DomainTimeMs     Domain = "timeMs"
	DomainPhase01    Domain = "phase01"
	DomainProgress01 Domain = "progress01"
	DomainDomainRef  Domain = "domain"
	DomainCamera     Domain = "camera"
	DomainPath       Domain = "path"
	DomainMesh       Domain = "mesh"
	DomainRenderTree Domain = "renderTree"
)

// domainArity is the single source of truth for bundle arity.
//
// Arity is a pure function of the domain, never of context or of a literal's
// runtime shape. color is canonically RGBA and therefore arity 4, uniformly
// across slot allocation and materialization.
var domainArity = map[Domain]int{
	DomainFloat:      1,
	DomainBool:       1,
	DomainVec2:       2,
	DomainVec3:       3,
	DomainColor:      4,
	DomainString:     1,
	DomainTrigger:    1,
	DomainTimeMs:     1,
	DomainPhase01:    1,
	DomainProgress01: 1,
	DomainDomainRef:  1,
	DomainCamera:     1,
	DomainPath:       1,
	DomainMesh:       1,
	DomainRenderTree: 1,
}

// TypeDesc describes the shape of one value flowing through the graph.
type TypeDesc struct {
	World       World  `json:"world"`
	Domain      Domain `json:"domain"`
	Semantics   string `json:"semantics,omitempty"`
	Unit        string `json:"unit,omitempty"`
	Category    string `json:"category,omitempty"`
	BusEligible bool   `json:"bus_eligible,omitempty"`
}

// StorageClass identifies how a value is stored in the per-frame value store.
type StorageClass string

const (
	// StorageNumeric is a packed numeric cell (or consecutive cells for
	// bundle types).
	StorageNumeric StorageClass = "numeric"

	// StorageObject is a boxed opaque reference (field buffers, domains,
	// cameras, render trees).
	StorageObject StorageClass = "object"
)

// ArityOf returns the number of consecutive numeric slots a value of the
// given type occupies. It is total: unrecognized domains default to 1.
// Callers that need to distinguish the default should use KnownDomain.
func ArityOf(t TypeDesc) int {
	return ArityOfDomain(t.Domain)
}

// ArityOfDomain returns the slot arity of a domain, defaulting to 1 for
// unrecognized domains.
func ArityOfDomain(d Domain) int {
	if a, ok := domainArity[d]; ok {
		return a
	}
	return 1
}

// KnownDomain reports whether the domain is one the compiler recognizes.
// Unrecognized domains still compile (arity defaults to 1) but hosts may
// surface a diagnostic.
func KnownDomain(d Domain) bool {
	_, ok := domainArity[d]
	return ok
}

// StorageOf returns the storage class for a type. Signal, scalar and event
// values live in packed numeric cells; field and special values are opaque
// references.
func StorageOf(t TypeDesc) StorageClass {
	switch t.World {
	case WorldField, WorldSpecial:
		return StorageObject
	default:
		return StorageNumeric
	}
}

// Convenience constructors for the types the compiler itself mints.

// SignalType returns a signal-world TypeDesc for the given domain.
func SignalType(d Domain) TypeDesc { return TypeDesc{World: WorldSignal, Domain: d} }

// FieldType returns a field-world TypeDesc for the given domain.
func FieldType(d Domain) TypeDesc { return TypeDesc{World: WorldField, Domain: d} }

// ScalarType returns a scalar-world TypeDesc for the given domain.
func ScalarType(d Domain) TypeDesc { return TypeDesc{World: WorldScalar, Domain: d} }

// EventType returns an event-world TypeDesc for the given domain.
func EventType(d Domain) TypeDesc { return TypeDesc{World: WorldEvent, Domain: d} }

// SpecialType returns a special-world TypeDesc for the given domain.
func SpecialType(d Domain) TypeDesc { return TypeDesc{World: WorldSpecial, Domain: d} }
