package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [file]",
		Short: "Re-validate a deployment descriptor whenever it changes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(cmd)
			if err != nil {
				return err
			}
			return c.app.Watch(cmd.Context(), optionalPath(args), opts)
		},
	}
	addLoadFlags(cmd)
	return cmd
}
