package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/like-buer/blog/internal/build"
	"github.com/like-buer/blog/internal/output"
	"github.com/like-buer/blog/pkg/model"
	"github.com/like-buer/blog/pkg/pagedata"
	"github.com/like-buer/blog/pkg/renderer"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	var siteDir string
	var outputMode string

	cmd := &cobra.Command{
		Use:   "inspect [route]",
		Short: "Show normalized page data without writing output",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtimeFromCommand(cmd)
			if err != nil {
				return err
			}
			format, err := output.ParseFormat(outputMode, output.FormatTable, output.FormatJSON, output.FormatYAML, output.FormatHTML)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("site") {
				siteDir = rt.Config.SiteDir
			}

			bundle, err := build.NewBuilder(nil, nil, rt.Logger).Prepare(cmd.Context(), siteDir)
			if err != nil {
				return err
			}
			pages := bundle.Pages
			if len(args) == 1 {
				page, ok := findPage(pages, args[0])
				if !ok {
					return fmt.Errorf("route %q not found", args[0])
				}
				pages = []model.PageData{page}
			}

			out := cmd.OutOrStdout()
			switch format {
			case output.FormatJSON, output.FormatYAML:
				return output.WriteStructured(out, format, pages)
			case output.FormatHTML:
				for _, page := range pages {
					head, err := renderer.RenderHead(&bundle.Site, page)
					if err != nil {
						return fmt.Errorf("render head for %s: %w", page.Route, err)
					}
					if len(pages) > 1 {
						fmt.Fprintf(out, "<!-- %s -->\n", page.Route)
					}
					if _, err := out.Write(head); err != nil {
						return err
					}
				}
				return nil
			default:
				rows := make([][]string, 0, len(pages))
				for _, page := range pages {
					keywords, _ := pagedata.KeywordsMeta(page.Frontmatter.Head)
					rows = append(rows, []string{
						page.Route,
						page.RelativePath,
						output.Truncate(page.Frontmatter.Title, 24),
						strconv.Itoa(len(page.Frontmatter.Head)),
						output.Truncate(keywords, 48),
					})
				}
				return output.WriteTable(out, []string{"ROUTE", "SOURCE", "TITLE", "HEAD", "KEYWORDS"}, rows)
			}
		},
	}

	cmd.Flags().StringVarP(&siteDir, "site", "s", "", "Site directory containing site.yaml (default from config)")
	cmd.Flags().StringVarP(&outputMode, "output", "o", "table", "Output format: table|json|yaml|html")

	return cmd
}

// findPage matches route exactly, then with or without a trailing slash.
func findPage(pages []model.PageData, route string) (model.PageData, bool) {
	route = strings.TrimSpace(route)
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	alt := strings.TrimSuffix(route, "/")
	if alt == route {
		alt = route + "/"
	}
	for _, candidate := range []string{route, alt} {
		for _, page := range pages {
			if page.Route == candidate {
				return page, true
			}
		}
	}
	return model.PageData{}, false
}
