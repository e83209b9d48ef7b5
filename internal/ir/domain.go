package ir

// DomainID identifies a declared domain (a population of elements).
type DomainID int

// DomainSource discriminates how a domain's elements are produced.
type DomainSource string

const (
	// DomainSourceSynthetic is N synthetic elements with IDs derived from
	// (n, seed).
	DomainSourceSynthetic DomainSource = "synthetic"

	// DomainSourceSVGPath samples elements from a path asset.
	DomainSourceSVGPath DomainSource = "svgPath"
)

// DomainDef is one population of elements.
//
// ElementIDs are stable and reproducible: a pure function of (Count, seed)
// for synthetic domains, of (Path, index) for path domains. Count is always
// at least 1; zero- or negative-count domains are not representable.
type DomainDef struct {
	ID     DomainID     `json:"id"`
	Source DomainSource `json:"source"`
	Count  int          `json:"count"`

	// Path is the asset reference for DomainSourceSVGPath.
	Path string `json:"path,omitempty"`

	// Slot is where the runtime domain handle lives.
	Slot SlotID `json:"slot"`

	// ElementIDs are the per-element stable identifiers, in element order.
	ElementIDs []string `json:"element_ids"`

	Block string `json:"block,omitempty"`
}

// CameraID identifies a declared camera.
type CameraID int

// CameraDef is a declared camera for 3D sinks. Projection parameters arrive
// through value slots like any other input; the definition itself is only
// the binding.
type CameraDef struct {
	ID   CameraID `json:"id"`
	Slot SlotID   `json:"slot"`

	Block string `json:"block,omitempty"`
}
