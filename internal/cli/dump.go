package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robert-malhotra/binscope/binscope"
)

const cellWidth = 14

func newDumpCmd(a *app) *cobra.Command {
	var (
		lf    layoutFlags
		first int64
		count int64
	)

	cmd := &cobra.Command{
		Use:   "dump [FILE]",
		Short: "Print decoded rows",
		Long: `Print decoded rows under the layout, one line per row, prefixed with
the byte offset of the row. Cells past the end of the file print as "-"
and cells that could not be read print as "ERR".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.resolveLayout(cmd.Flags(), &lf)
			if err != nil {
				return err
			}
			if first < 0 || count < 0 {
				return fmt.Errorf("--row and --rows must not be negative")
			}
			f, err := a.openFile(args)
			if err != nil {
				return err
			}
			defer deferClose(a.logger, f, "closing file")

			st := newStyler(cmd.OutOrStdout())
			out := cmd.OutOrStdout()
			last := min(first+count, f.Rows(l))
			var sb strings.Builder
			for row := first; row < last; row++ {
				vals, err := f.Row(l, row)
				if err != nil {
					return err
				}
				sb.Reset()
				sb.WriteString(st.render(offsetStyle, fmt.Sprintf("%10d", f.RowOffset(l, row))))
				for _, v := range vals {
					sb.WriteString(formatCell(st, v))
				}
				fmt.Fprintln(out, sb.String())
			}
			if err := f.Err(); err != nil {
				a.logger.Warn().Err(err).Msg("file has a read fault")
			}
			return a.finish(f)
		},
	}
	addLayoutFlags(cmd.Flags(), &lf)
	cmd.Flags().Int64Var(&first, "row", 0, "First row to print")
	cmd.Flags().Int64Var(&count, "rows", 20, "Number of rows to print")
	return cmd
}

// formatCell right-aligns v in a fixed-width cell.
func formatCell(st styler, v binscope.Value) string {
	switch v.Kind {
	case binscope.KindMissing:
		return st.render(missingStyle, fmt.Sprintf("%*s", cellWidth, "-"))
	case binscope.KindError:
		return st.render(errorStyle, fmt.Sprintf("%*s", cellWidth, "ERR"))
	}
	return fmt.Sprintf("%*s", cellWidth, v.String())
}
