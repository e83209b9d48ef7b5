package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/brandon-fryslie/oscilla-animator-sub010/internal/ir"
	"github.com/brandon-fryslie/oscilla-animator-sub010/internal/store"
)

// NewArchiveCommand groups the program archive subcommands. The archive is a
// local SQLite database keyed by (patch id, revision).
func NewArchiveCommand(opts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Store and retrieve compiled programs",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "oscilla.db", "archive database path")

	cmd.AddCommand(newArchivePutCommand(&dbPath))
	cmd.AddCommand(newArchiveGetCommand(&dbPath))
	cmd.AddCommand(newArchiveListCommand(&dbPath))

	return cmd
}

func newArchivePutCommand(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "put <program.json>",
		Short: "Archive a serialized program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProgram(args[0])
			if err != nil {
				return err
			}
			st, err := store.Open(*dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			entry, err := st.Put(cmd.Context(), p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "archived %s@%d digest=%s\n",
				entry.PatchID, entry.PatchRevision, entry.Digest)
			return nil
		},
	}
}

func newArchiveGetCommand(dbPath *string) *cobra.Command {
	var (
		out      string
		revision int64
		pretty   bool
	)

	cmd := &cobra.Command{
		Use:   "get <patch-id>",
		Short: "Retrieve an archived program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(*dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			var p *ir.CompiledProgram
			if revision >= 0 {
				p, err = st.Get(cmd.Context(), args[0], revision)
			} else {
				p, err = st.Latest(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}

			data, err := ir.EncodeProgram(p, pretty)
			if err != nil {
				return err
			}
			if out == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return os.WriteFile(out, data, 0o644)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file (- for stdout)")
	cmd.Flags().Int64Var(&revision, "revision", -1, "patch revision (latest when negative)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "pretty-print the output")

	return cmd
}

func newArchiveListCommand(dbPath *string) *cobra.Command {
	var patchID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived programs",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(*dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			entries, err := st.List(cmd.Context(), patchID)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no archived programs")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PATCH\tREV\tIR\tSEED\tDIGEST")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%s\n",
					e.PatchID, e.PatchRevision, e.IRVersion, e.Seed, e.Digest)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&patchID, "patch-id", "", "filter by patch (all when empty)")

	return cmd
}
