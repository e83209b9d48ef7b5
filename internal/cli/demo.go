package cli

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/brandon-fryslie/oscilla-animator-sub010/internal/builder"
	"github.com/brandon-fryslie/oscilla-animator-sub010/internal/ir"
	"github.com/brandon-fryslie/oscilla-animator-sub010/internal/lower"
	"github.com/brandon-fryslie/oscilla-animator-sub010/internal/schedule"
)

// NewDemoCommand compiles the reference patch end to end and writes the
// serialized program. Useful for smoke-testing the pipeline and producing
// fixture programs for the other commands.
func NewDemoCommand(opts *RootOptions) *cobra.Command {
	var (
		out    string
		seed   int64
		pretty bool
		patch  string
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Compile the built-in reference patch",
		RunE: func(cmd *cobra.Command, args []string) error {
			if patch == "" {
				// Patch identity is host state, not compiler state; a
				// fresh UUID here never touches the deterministic core.
				patch = uuid.NewString()
			}
			bp, err := lower.DemoPatch(builder.Config{
				PatchID:       patch,
				PatchRevision: 1,
				Seed:          seed,
			})
			if err != nil {
				return err
			}

			program, warnings, err := schedule.Compile(bp)
			if err != nil {
				return err
			}
			for _, w := range warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %s\n", w.Code, w.Message)
			}

			data, err := ir.EncodeProgram(program, pretty)
			if err != nil {
				return err
			}
			if out == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			if opts.Verbose {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", out, len(data))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "program.json", "output file (- for stdout)")
	cmd.Flags().Int64Var(&seed, "seed", 1, "compilation seed")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "pretty-print the output")
	cmd.Flags().StringVar(&patch, "patch-id", "", "patch identity (random when empty)")

	return cmd
}
