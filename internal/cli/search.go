package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/robert-malhotra/binscope/binscope"
)

func newSearchCmd(a *app) *cobra.Command {
	var (
		lf         layoutFlags
		cursor     int64
		allColumns bool
	)

	cmd := &cobra.Command{
		Use:   "search TERM [FILE]",
		Short: "Find the next element or text containing TERM",
		Long: `Find the next match of TERM after --cursor. In text mode the rendered
text is searched and the character index, file offset and line are printed. Otherwise each element
of column 0 (every column with --all-columns) is rendered in decimal and
tested for TERM; the row and byte offset are printed.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.resolveLayout(cmd.Flags(), &lf)
			if err != nil {
				return err
			}
			var extra []binscope.Option
			if allColumns {
				extra = append(extra, binscope.WithAllColumns())
			}
			f, err := a.openFile(args[1:], extra...)
			if err != nil {
				return err
			}
			defer deferClose(a.logger, f, "closing file")

			hit, err := f.Search(cmd.Context(), l, args[0], binscope.Cursor{Pos: cursor, Type: l.Type()})
			if err != nil {
				return notFound(cmd.OutOrStdout(), err)
			}
			printHit(cmd.OutOrStdout(), newStyler(cmd.OutOrStdout()), hit)
			return a.finish(f)
		},
	}
	addLayoutFlags(cmd.Flags(), &lf)
	addCursorFlag(cmd.Flags(), &cursor)
	cmd.Flags().BoolVar(&allColumns, "all-columns", false, "Test every column, not only column 0")
	return cmd
}

func newNextAOICmd(a *app) *cobra.Command {
	var (
		lf     layoutFlags
		cursor int64
	)

	cmd := &cobra.Command{
		Use:   "next-aoi [FILE]",
		Short: "Find the next area of interest after --cursor",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.resolveLayout(cmd.Flags(), &lf)
			if err != nil {
				return err
			}
			f, err := a.openFile(args)
			if err != nil {
				return err
			}
			defer deferClose(a.logger, f, "closing file")

			hit, err := f.NextAOI(cmd.Context(), l, binscope.Cursor{Pos: cursor, Type: l.Type()})
			if err != nil {
				return notFound(cmd.OutOrStdout(), err)
			}
			printHit(cmd.OutOrStdout(), newStyler(cmd.OutOrStdout()), hit)
			return a.finish(f)
		},
	}
	addLayoutFlags(cmd.Flags(), &lf)
	addCursorFlag(cmd.Flags(), &cursor)
	return cmd
}

// notFound prints a message for ErrNotFound and passes other errors through.
func notFound(w io.Writer, err error) error {
	if errors.Is(err, binscope.ErrNotFound) {
		fmt.Fprintln(w, "not found")
		return nil
	}
	return err
}

func printHit(w io.Writer, st styler, hit binscope.Hit) {
	if hit.Type == binscope.Text {
		fmt.Fprintf(w, "pos %s offset %d line %d\n", st.render(hitStyle, fmt.Sprint(hit.Pos)), hit.Offset, hit.Line)
		return
	}
	fmt.Fprintf(w, "row %s offset %d\n", st.render(hitStyle, fmt.Sprint(hit.Pos)), hit.Offset)
}
