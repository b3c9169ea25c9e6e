package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/robert-malhotra/binscope/binscope"
)

func newScanCmd(a *app) *cobra.Command {
	var (
		lf        layoutFlags
		all       bool
		positions bool
		aligned   bool
	)

	cmd := &cobra.Command{
		Use:   "scan [FILE]",
		Short: "Sample the file for areas of interest",
		Long: `Sample windows of consecutive elements and count those that look like
deliberately written numbers. With --all every numeric type is scanned under
the same start, phase and columns.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.resolveLayout(cmd.Flags(), &lf)
			if err != nil {
				return err
			}
			var extra []binscope.Option
			if aligned {
				extra = append(extra, binscope.WithAlignedSampling())
			}
			f, err := a.openFile(args, extra...)
			if err != nil {
				return err
			}
			defer deferClose(a.logger, f, "closing file")

			var results []binscope.ScanResult
			if all {
				results, err = f.ScanAll(cmd.Context(), l.Start(), int32(l.Phase()), int32(l.Columns()))
			} else {
				var res binscope.ScanResult
				res, err = f.Scan(cmd.Context(), l)
				results = []binscope.ScanResult{res}
			}
			if err != nil {
				return err
			}

			st := newStyler(cmd.OutOrStdout())
			for _, res := range results {
				printScanResult(cmd.OutOrStdout(), st, res, positions)
			}
			return a.finish(f)
		},
	}
	addLayoutFlags(cmd.Flags(), &lf)
	cmd.Flags().BoolVar(&all, "all", false, "Scan every numeric element type")
	cmd.Flags().BoolVar(&positions, "positions", false, "Print the byte offset of every accepted window")
	cmd.Flags().BoolVar(&aligned, "aligned", false, "Keep sampled offsets on element boundaries")
	return cmd
}

func printScanResult(w io.Writer, st styler, res binscope.ScanResult, positions bool) {
	name := st.render(headerStyle, fmt.Sprintf("%-8s", res.Type))
	if !res.Scanned {
		fmt.Fprintf(w, "%s not scanned\n", name)
		return
	}
	count := fmt.Sprintf("%d/%d", res.Count, res.SampleCount)
	if res.Found() {
		count = st.render(hitStyle, count)
	}
	fmt.Fprintf(w, "%s %s windows look like data\n", name, count)
	if positions {
		for _, off := range res.Positions {
			fmt.Fprintf(w, "  %d\n", off)
		}
	}
}
