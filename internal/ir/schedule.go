package ir

// StepID identifies one step of the compiled schedule. IDs are stable
// strings derived from emission order and step role, so that dependency
// lists and the topological tie-break are reproducible across compiles.
type StepID string

// StepKind discriminates the schedule step variants.
type StepKind string

const (
	// StepTimeDerive converts externally supplied absolute time into model
	// time, phase, progress and the wrap/end event. Always the first step;
	// it depends on nothing and no other step may write its slots.
	StepTimeDerive StepKind = "timeDerive"

	// StepSignalEval evaluates one signal-table node into its slot.
	StepSignalEval StepKind = "signalEval"

	// StepNodeEval evaluates one event-table node into its slot.
	StepNodeEval StepKind = "nodeEval"

	// StepMaterialize evaluates a field expression into a concrete buffer
	// for a domain.
	StepMaterialize StepKind = "materialize"

	// StepMaterializeColor evaluates a color field into four separate
	// channel buffers (RGBA).
	StepMaterializeColor StepKind = "materializeColor"

	// StepMaterializePath evaluates a path field into sampled geometry.
	StepMaterializePath StepKind = "materializePath"

	// StepCameraEval resolves a camera's projection for the frame.
	StepCameraEval StepKind = "cameraEval"

	// StepMeshMaterialize evaluates mesh geometry for 3D instancing.
	StepMeshMaterialize StepKind = "meshMaterialize"

	// StepInstances3DProjectTo2D projects 3D instance data through a
	// camera into 2D batch form.
	StepInstances3DProjectTo2D StepKind = "instances3dProjectTo2d"

	// StepRenderAssemble builds the frame's render tree from the batch
	// descriptors. Depends on every materialization step of the frame.
	StepRenderAssemble StepKind = "renderAssemble"

	// StepDebugProbe is a diagnostic no-op when disabled. Non-fatal
	// misconfigurations surface here instead of blocking compilation.
	StepDebugProbe StepKind = "debugProbe"
)

// CacheMode is the recompute policy of a step.
type CacheMode string

const (
	// CacheNone always recomputes.
	CacheNone CacheMode = "none"

	// CachePerFrame computes once per frame and is reusable within it.
	CachePerFrame CacheMode = "perFrame"

	// CacheUntilInvalidated holds its result across frames until one of
	// the enumerated dependencies changes.
	CacheUntilInvalidated CacheMode = "untilInvalidated"
)

// CacheDepKind classifies one invalidation dependency.
type CacheDepKind string

const (
	CacheDepSlot      CacheDepKind = "slot"
	CacheDepTimeModel CacheDepKind = "timeModel"
	CacheDepSeed      CacheDepKind = "seed"
	CacheDepState     CacheDepKind = "state"
	CacheDepExternal  CacheDepKind = "external"
)

// CacheDep is one enumerated invalidation dependency of a cached step.
type CacheDep struct {
	Kind CacheDepKind `json:"kind"`
	Ref  string       `json:"ref"`
}

// CacheKeySpec is the caching policy a step declares. The compiler only
// emits the policy; honoring it is the runtime's job.
type CacheKeySpec struct {
	Mode CacheMode  `json:"mode"`
	Deps []CacheDep `json:"deps,omitempty"`
}

// Instance2DBatch is compile-time batch configuration for a 2D instance
// sink: slot references, not data, embedded directly in the assemble step.
type Instance2DBatch struct {
	Sink      int      `json:"sink"`
	Domain    DomainID `json:"domain"`
	Positions SlotID   `json:"positions"`
	Radius    SlotID   `json:"radius,omitempty"`
	Color     SlotID   `json:"color,omitempty"`
}

// PathBatch is compile-time batch configuration for a 2D path sink.
type PathBatch struct {
	Sink  int    `json:"sink"`
	Paths SlotID `json:"paths"`
	Color SlotID `json:"color,omitempty"`
}

// Step is one executable operation of the per-frame schedule.
//
// Steps are a discriminated variant on Kind; fields beyond ID, Kind,
// DependsOn and Cache are meaningful only for the kinds documented on them.
// DependsOn is explicit: the compiler never infers dependencies from slot
// reads - each emitting routine declares them.
type Step struct {
	ID        StepID   `json:"id"`
	Kind      StepKind `json:"kind"`
	DependsOn []StepID `json:"depends_on,omitempty"`

	Cache CacheKeySpec `json:"cache"`

	// Target is the output slot for evaluation/materialization steps.
	Target SlotID `json:"target,omitempty"`

	// Sig is the signal node for StepSignalEval.
	Sig SigNodeID `json:"sig,omitempty"`

	// Event is the event node for StepNodeEval.
	Event EventNodeID `json:"event,omitempty"`

	// Field and Domain describe materialization steps.
	Field  FieldNodeID `json:"field,omitempty"`
	Domain DomainID    `json:"domain,omitempty"`

	// Camera is the camera for StepCameraEval and projection steps.
	Camera CameraID `json:"camera,omitempty"`

	// Channels are the four channel buffer slots written by
	// StepMaterializeColor, in RGBA order.
	Channels []SlotID `json:"channels,omitempty"`

	// Batches2D and BatchesPath are the batch descriptors embedded in
	// StepRenderAssemble.
	Batches2D   []Instance2DBatch `json:"batches_2d,omitempty"`
	BatchesPath []PathBatch       `json:"batches_path,omitempty"`

	// Probe is the diagnostic message of a StepDebugProbe.
	Probe string `json:"probe,omitempty"`
}

// DeterminismContract declares, exhaustively, which inputs are permitted to
// influence step ordering. Clock jitter and unordered-collection iteration
// are never on the list.
type DeterminismContract struct {
	// OrderingInputs is the closed list of inputs allowed to affect step
	// ordering.
	OrderingInputs []string `json:"ordering_inputs"`

	// TieBreak names the fixed tie-break rule of the topological sort.
	TieBreak string `json:"tie_break"`
}

// Schedule is the compiled execution plan: an ordered list of steps replayed
// unchanged every frame until the next recompile.
type Schedule struct {
	Steps    []Step              `json:"steps"`
	Contract DeterminismContract `json:"contract"`
}

// StepByID returns the step with the given ID and whether it exists.
func (s *Schedule) StepByID(id StepID) (Step, bool) {
	for _, st := range s.Steps {
		if st.ID == id {
			return st, true
		}
	}
	return Step{}, false
}
