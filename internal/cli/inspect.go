package cli

import (
	"github.com/spf13/cobra"
)

// NewInspectCommand summarizes a serialized program file.
func NewInspectCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <program.json>",
		Short: "Summarize a serialized program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProgram(args[0])
			if err != nil {
				return err
			}
			summary, err := Summarize(p)
			if err != nil {
				return err
			}
			return summary.Render(cmd.OutOrStdout(), opts.Format)
		},
	}
}
