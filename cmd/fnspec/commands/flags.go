package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/fnspec/internal/app"
)

func addLoadFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("strict", false, "Reject unknown keys instead of ignoring them")
	cmd.Flags().StringArrayP("set", "s", nil, "Override a ${NAME} reference (KEY=VALUE, repeatable)")
	cmd.Flags().Bool("from-env", false, "Resolve ${NAME} references from the process environment")
	cmd.Flags().StringSlice("require-env", nil, "Environment keys every function must declare")
}

func loadOptions(cmd *cobra.Command) (app.LoadOptions, error) {
	strict, _ := cmd.Flags().GetBool("strict")
	pairs, _ := cmd.Flags().GetStringArray("set")
	fromEnv, _ := cmd.Flags().GetBool("from-env")
	requireEnv, _ := cmd.Flags().GetStringSlice("require-env")

	overrides, err := app.ParseOverrides(pairs)
	if err != nil {
		return app.LoadOptions{}, err
	}

	return app.LoadOptions{
		Overrides:  overrides,
		Strict:     strict,
		FromEnv:    fromEnv,
		RequireEnv: requireEnv,
	}, nil
}

func optionalPath(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
