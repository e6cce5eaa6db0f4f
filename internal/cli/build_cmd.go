package cli

import (
	"fmt"
	"strings"

	"github.com/like-buer/blog/internal/build"
	"github.com/spf13/cobra"
)

func newBuildCmd() *cobra.Command {
	var siteDir string
	var outDir string
	var noHistory bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Normalize page data and write pagedata.json and sitemap.xml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtimeFromCommand(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("site") {
				siteDir = rt.Config.SiteDir
			}
			if !cmd.Flags().Changed("out-dir") {
				outDir = rt.Config.OutDir
			}
			if strings.TrimSpace(siteDir) == "" {
				return fmt.Errorf("site directory is required")
			}

			builder := build.NewBuilder(nil, nil, rt.Logger)
			if !noHistory {
				db, err := rt.openHistory(cmd.Context())
				if err != nil {
					return err
				}
				if db != nil {
					defer db.Close()
					builder = build.NewBuilder(db, rt.snapshotStore(), rt.Logger)
				}
			}

			res, err := builder.Build(cmd.Context(), siteDir, outDir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Built %d page(s) into %s (build %s)\n", len(res.Pages), res.OutDir, res.BuildID)
			if res.SitemapPath != "" {
				fmt.Fprintf(out, "Sitemap: %s (%d url(s))\n", res.SitemapPath, res.SitemapURLs)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&siteDir, "site", "s", "", "Site directory containing site.yaml (default from config)")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "Output directory (default: the site's outDir)")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record this build in the history database")

	return cmd
}
