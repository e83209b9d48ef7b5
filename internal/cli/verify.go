package cli

import (
	"fmt"
	"os"
	"reflect"

	"github.com/spf13/cobra"

	"github.com/brandon-fryslie/oscilla-animator-sub010/internal/ir"
)

// NewVerifyCommand checks a serialized program for round-trip fidelity and
// digest stability: decode, re-encode, decode again, compare.
func NewVerifyCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <program.json>",
		Short: "Verify round-trip fidelity of a serialized program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			p, err := ir.DecodeProgram(data)
			if err != nil {
				return err
			}

			compact, err := ir.EncodeProgram(p, false)
			if err != nil {
				return fmt.Errorf("re-encode: %w", err)
			}
			again, err := ir.DecodeProgram(compact)
			if err != nil {
				return fmt.Errorf("re-decode: %w", err)
			}
			if !reflect.DeepEqual(p, again) {
				return fmt.Errorf("%s: round trip is not structurally exact", args[0])
			}

			pretty, err := ir.EncodeProgram(p, true)
			if err != nil {
				return fmt.Errorf("pretty encode: %w", err)
			}
			fromPretty, err := ir.DecodeProgram(pretty)
			if err != nil {
				return fmt.Errorf("pretty decode: %w", err)
			}
			if !reflect.DeepEqual(p, fromPretty) {
				return fmt.Errorf("%s: compact and pretty encodings disagree", args[0])
			}

			fmt.Fprintf(cmd.OutOrStdout(), "ok %s digest=%s\n", args[0], ir.ProgramDigest(compact))
			return nil
		},
	}
}
