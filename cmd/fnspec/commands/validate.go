package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [files...]",
		Short: "Validate deployment descriptors",
		Long: "Validate one or more deployment descriptors. Without arguments the nearest " +
			"serverless.yml is discovered from the working directory.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(cmd)
			if err != nil {
				return err
			}
			return c.app.Validate(cmd.Context(), args, opts)
		},
	}
	addLoadFlags(cmd)
	return cmd
}
