package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the blogctl root command tree.
func NewRootCmd(version string) *cobra.Command {
	flags := &globalFlags{}
	cmd := &cobra.Command{
		Use:           "blogctl",
		Short:         "Build-time page data tooling for the blog",
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initRuntime(cmd, flags)
		},
	}
	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Config file (default $BLOGCTL_CONFIG or ~/.blogctl/config.yaml)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	cmd.AddCommand(newBuildCmd())
	cmd.AddCommand(newInspectCmd())
	cmd.AddCommand(newAuditCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd(version))

	return cmd
}
