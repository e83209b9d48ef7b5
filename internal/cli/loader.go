package cli

import (
	"fmt"
	"os"

	"github.com/brandon-fryslie/oscilla-animator-sub010/internal/ir"
)

// loadProgram reads and decodes a serialized program file.
func loadProgram(path string) (*ir.CompiledProgram, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read program: %w", err)
	}
	p, err := ir.DecodeProgram(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}
