package cli

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"
	"github.com/spf13/cobra"
)

//go:embed schema.cue
var programSchema string

// NewValidateCommand checks a serialized program file against the embedded
// interchange schema. Unlike verify, this never decodes into Go types, so it
// catches malformed files the decoder would reject with a less useful error.
func NewValidateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <program.json>",
		Short: "Validate a serialized program against the interchange schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if errs := validateProgramBytes(args[0], data); len(errs) > 0 {
				for _, msg := range errs {
					fmt.Fprintln(cmd.ErrOrStderr(), msg)
				}
				return fmt.Errorf("%s: %d schema violation(s)", args[0], len(errs))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok %s\n", args[0])
			return nil
		},
	}
}

// validateProgramBytes unifies raw program JSON with #Program from schema.cue
// and returns one message per violation.
func validateProgramBytes(name string, data []byte) []string {
	ctx := cuecontext.New()

	schema := ctx.CompileString(programSchema, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return []string{fmt.Sprintf("internal schema error: %v", err)}
	}
	def := schema.LookupPath(cue.ParsePath("#Program"))
	if err := def.Err(); err != nil {
		return []string{fmt.Sprintf("internal schema error: %v", err)}
	}

	expr, err := cuejson.Extract(name, data)
	if err != nil {
		return []string{fmt.Sprintf("parse json: %v", err)}
	}
	val := ctx.BuildExpr(expr)
	if err := val.Err(); err != nil {
		return []string{fmt.Sprintf("parse json: %v", err)}
	}

	if err := def.Unify(val).Validate(cue.Concrete(false)); err != nil {
		msgs := make([]string, 0, 4)
		for _, e := range cueerrors.Errors(err) {
			msgs = append(msgs, e.Error())
		}
		return msgs
	}
	return nil
}
