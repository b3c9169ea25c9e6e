package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/robert-malhotra/binscope/internal/dtype"
)

func newInfoCmd(a *app) *cobra.Command {
	var lf layoutFlags

	cmd := &cobra.Command{
		Use:   "info [FILE]",
		Short: "Show size, fingerprint and row counts for every element type",
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

			fp, err := f.Fingerprint()
			if err != nil {
				return err
			}

			st := newStyler(cmd.OutOrStdout())
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "path:\t%s\n", f.Path())
			fmt.Fprintf(w, "size:\t%d bytes\n", f.Size())
			fmt.Fprintf(w, "fingerprint:\t%s\n", fp)
			fmt.Fprintf(w, "layout:\t%s\n", l)
			fmt.Fprintln(w, st.render(headerStyle, "type")+"\t"+st.render(headerStyle, "rows"))
			for _, typ := range dtype.Types {
				tl, err := l.WithType(typ)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%d\n", typ, f.Rows(tl))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			return a.finish(f)
		},
	}
	addLayoutFlags(cmd.Flags(), &lf)
	return cmd
}
