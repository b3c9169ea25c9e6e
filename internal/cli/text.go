package cli

import (
	"github.com/spf13/cobra"
)

func newTextCmd(a *app) *cobra.Command {
	var lf layoutFlags

	cmd := &cobra.Command{
		Use:   "text [FILE]",
		Short: "Print the file rendered as text",
		Long: `Print the file from byte phase+start rendered as text. Printable bytes
are kept, newlines are kept, carriage returns are dropped, tabs become four
spaces and every other byte becomes "*".`,
		Args: cobra.MaximumNArgs(1),
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

			if err := f.WriteText(cmd.OutOrStdout(), l); err != nil {
				return err
			}
			return a.finish(f)
		},
	}
	addLayoutFlags(cmd.Flags(), &lf)
	return cmd
}
