package ir

// Version constants for IR schema and compiler.
const (
	// IRVersion is the IR schema version carried by every CompiledProgram.
	IRVersion = "1"

	// CompilerVersion is the Oscilla compiler core version.
	CompilerVersion = "0.1.0"
)
