package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/like-buer/blog/internal/audit"
	"github.com/like-buer/blog/internal/output"
	"github.com/spf13/cobra"
)

func newAuditCmd() *cobra.Command {
	var outputMode string
	var exclude []string

	cmd := &cobra.Command{
		Use:   "audit <dir>",
		Short: "Check emitted HTML for exactly one keywords meta tag per page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtimeFromCommand(cmd)
			if err != nil {
				return err
			}
			format, err := output.ParseFormat(outputMode)
			if err != nil {
				return err
			}

			report, err := audit.Dir(cmd.Context(), args[0], audit.Options{Exclude: exclude})
			if err != nil {
				return err
			}
			rt.Logger.Debug("audit finished", "dir", report.Dir, "files", report.Files, "findings", len(report.Findings))

			out := cmd.OutOrStdout()
			if format != output.FormatTable {
				if err := output.WriteStructured(out, format, report); err != nil {
					return err
				}
			} else if len(report.Findings) == 0 {
				fmt.Fprintf(out, "Audited %d file(s): no findings\n", report.Files)
			} else {
				rows := make([][]string, 0, len(report.Findings))
				for _, f := range report.Findings {
					rows = append(rows, []string{f.Path, f.Kind, strconv.Itoa(f.Count), output.Truncate(strings.Join(f.Keywords, " | "), 60)})
				}
				if err := output.WriteTable(out, []string{"PATH", "FINDING", "COUNT", "KEYWORDS"}, rows); err != nil {
					return err
				}
			}

			if len(report.Findings) > 0 {
				return exitCodeError(exitCodeFindings, fmt.Errorf("%d of %d file(s) failed the keywords audit", len(report.Findings), report.Files))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputMode, "output", "o", "table", "Output format: table|json|yaml")
	cmd.Flags().StringArrayVar(&exclude, "exclude", nil, "Glob of files to skip, relative to <dir> (repeatable)")

	return cmd
}
