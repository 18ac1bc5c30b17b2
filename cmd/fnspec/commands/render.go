package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Print the canonical form of a deployment descriptor",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(cmd)
			if err != nil {
				return err
			}
			return c.app.Render(cmd.Context(), optionalPath(args), cmd.OutOrStdout(), opts)
		},
	}
	addLoadFlags(cmd)
	return cmd
}
