package cli

import (
	"fmt"
	"runtime"

	"github.com/like-buer/blog/internal/output"
	"github.com/spf13/cobra"
)

type versionInfo struct {
	Version   string `json:"version" yaml:"version"`
	GoVersion string `json:"goVersion" yaml:"goVersion"`
	Platform  string `json:"platform" yaml:"platform"`
}

func newVersionCmd(version string) *cobra.Command {
	if version == "" {
		version = "dev"
	}
	var outputMode string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print blogctl version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := output.ParseFormat(outputMode)
			if err != nil {
				return err
			}
			if format == output.FormatTable {
				fmt.Fprintln(cmd.OutOrStdout(), version)
				return nil
			}
			return output.WriteStructured(cmd.OutOrStdout(), format, versionInfo{
				Version:   version,
				GoVersion: runtime.Version(),
				Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			})
		},
	}
	cmd.Flags().StringVarP(&outputMode, "output", "o", "table", "Output format: table|json|yaml")
	return cmd
}
