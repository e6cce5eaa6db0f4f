package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	dbpkg "github.com/like-buer/blog/internal/db"
	"github.com/like-buer/blog/internal/output"
	"github.com/like-buer/blog/internal/snapshot"
	"github.com/spf13/cobra"
)

type buildSummary struct {
	ID          string `json:"id" yaml:"id"`
	Status      string `json:"status" yaml:"status"`
	SiteTitle   string `json:"siteTitle" yaml:"siteTitle"`
	SiteDir     string `json:"siteDir" yaml:"siteDir"`
	OutDir      string `json:"outDir" yaml:"outDir"`
	Pages       int    `json:"pages" yaml:"pages"`
	SitemapURLs int    `json:"sitemapUrls" yaml:"sitemapUrls"`
	PageData    string `json:"pageDataSha256,omitempty" yaml:"pageDataSha256,omitempty"`
	StartedAt   string `json:"startedAt" yaml:"startedAt"`
	FinishedAt  string `json:"finishedAt" yaml:"finishedAt"`
}

type buildPageSummary struct {
	Route        string `json:"route" yaml:"route"`
	RelativePath string `json:"relativePath" yaml:"relativePath"`
	Keywords     string `json:"keywords" yaml:"keywords"`
	HeadCount    int    `json:"headCount" yaml:"headCount"`
}

type buildDetail struct {
	buildSummary `yaml:",inline"`
	BuildLog     string             `json:"buildLog" yaml:"buildLog"`
	PageList     []buildPageSummary `json:"pageList" yaml:"pageList"`
}

func newHistoryCmd() *cobra.Command {
	var limit int
	var outputMode string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded builds, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtimeFromCommand(cmd)
			if err != nil {
				return err
			}
			format, err := output.ParseFormat(outputMode)
			if err != nil {
				return err
			}
			db, err := rt.requireHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			rows, err := dbpkg.NewQueries(db).ListBuilds(cmd.Context(), limit)
			if err != nil {
				return err
			}
			summaries := make([]buildSummary, 0, len(rows))
			for _, row := range rows {
				summaries = append(summaries, summarizeBuild(row))
			}

			out := cmd.OutOrStdout()
			if format != output.FormatTable {
				return output.WriteStructured(out, format, summaries)
			}
			table := make([][]string, 0, len(summaries))
			for _, s := range summaries {
				table = append(table, []string{s.ID, s.Status, s.StartedAt, strconv.Itoa(s.Pages), strconv.Itoa(s.SitemapURLs), output.Truncate(output.OrNone(&s.SiteTitle), 24)})
			}
			return output.WriteTable(out, []string{"BUILD", "STATUS", "STARTED", "PAGES", "SITEMAP", "SITE"}, table)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of builds to list (0 for all)")
	cmd.Flags().StringVarP(&outputMode, "output", "o", "table", "Output format: table|json|yaml")

	cmd.AddCommand(newHistoryShowCmd())
	cmd.AddCommand(newHistoryPruneCmd())

	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	var outputMode string
	var pageData bool

	cmd := &cobra.Command{
		Use:   "show <build-id>",
		Short: "Show one recorded build with its pages and build log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtimeFromCommand(cmd)
			if err != nil {
				return err
			}
			format, err := output.ParseFormat(outputMode)
			if err != nil {
				return err
			}
			db, err := rt.requireHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			q := dbpkg.NewQueries(db)
			id := strings.TrimSpace(args[0])
			row, err := q.GetBuild(cmd.Context(), id)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return fmt.Errorf("build %q not found", id)
				}
				return err
			}
			if pageData {
				return writeSnapshot(cmd, rt, row)
			}
			pages, err := q.ListBuildPages(cmd.Context(), id)
			if err != nil {
				return err
			}

			detail := buildDetail{buildSummary: summarizeBuild(row), BuildLog: row.BuildLog, PageList: make([]buildPageSummary, 0, len(pages))}
			for _, p := range pages {
				detail.PageList = append(detail.PageList, buildPageSummary{Route: p.Route, RelativePath: p.RelativePath, Keywords: p.Keywords, HeadCount: p.HeadCount})
			}

			out := cmd.OutOrStdout()
			if format != output.FormatTable {
				return output.WriteStructured(out, format, detail)
			}
			fmt.Fprintf(out, "Build:    %s\n", detail.ID)
			fmt.Fprintf(out, "Status:   %s\n", detail.Status)
			fmt.Fprintf(out, "Site:     %s (%s)\n", detail.SiteTitle, detail.SiteDir)
			fmt.Fprintf(out, "Output:   %s\n", detail.OutDir)
			fmt.Fprintf(out, "Started:  %s\n", detail.StartedAt)
			fmt.Fprintf(out, "Finished: %s\n", detail.FinishedAt)
			fmt.Fprintf(out, "Sitemap:  %d url(s)\n", detail.SitemapURLs)
			if detail.PageData != "" {
				fmt.Fprintf(out, "Snapshot: sha256:%s\n", detail.PageData)
			}
			fmt.Fprintln(out)
			if len(detail.PageList) > 0 {
				rows := make([][]string, 0, len(detail.PageList))
				for _, p := range detail.PageList {
					rows = append(rows, []string{p.Route, p.RelativePath, strconv.Itoa(p.HeadCount), output.Truncate(p.Keywords, 48)})
				}
				if err := output.WriteTable(out, []string{"ROUTE", "SOURCE", "HEAD", "KEYWORDS"}, rows); err != nil {
					return err
				}
				fmt.Fprintln(out)
			}
			fmt.Fprint(out, detail.BuildLog)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputMode, "output", "o", "table", "Output format: table|json|yaml")
	cmd.Flags().BoolVar(&pageData, "pagedata", false, "Print the pagedata.json snapshot kept for this build")
	return cmd
}

func writeSnapshot(cmd *cobra.Command, rt *commandRuntime, row dbpkg.BuildRow) error {
	if row.PageDataHash == "" {
		return fmt.Errorf("build %s has no page data snapshot", row.ID)
	}
	content, err := rt.snapshotStore().Get(cmd.Context(), row.PageDataHash)
	if err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			return fmt.Errorf("page data snapshot for build %s is missing from %s", row.ID, rt.snapshotStore().Root())
		}
		return err
	}
	_, err = cmd.OutOrStdout().Write(content)
	return err
}

func newHistoryPruneCmd() *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest recorded builds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtimeFromCommand(cmd)
			if err != nil {
				return err
			}
			if keep < 0 {
				return fmt.Errorf("--keep must be >= 0")
			}
			db, err := rt.requireHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			q := dbpkg.NewQueries(db)
			n, err := q.PruneBuilds(cmd.Context(), keep)
			if err != nil {
				return err
			}
			referenced, err := q.ReferencedPageDataHashes(cmd.Context())
			if err != nil {
				return err
			}
			removed, err := rt.snapshotStore().Prune(cmd.Context(), referenced)
			if err != nil {
				return err
			}
			rt.Logger.Info("pruned build history", "deleted", n, "kept", keep, "snapshots_removed", removed)
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d build(s)\n", n)
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d snapshot(s)\n", removed)
			return nil
		},
	}

	cmd.Flags().IntVar(&keep, "keep", 10, "Number of newest builds to keep")
	return cmd
}

func summarizeBuild(row dbpkg.BuildRow) buildSummary {
	return buildSummary{
		ID:          row.ID,
		Status:      row.Status,
		SiteTitle:   row.SiteTitle,
		SiteDir:     row.SiteDir,
		OutDir:      row.OutDir,
		Pages:       row.PageCount,
		SitemapURLs: row.SitemapURLs,
		PageData:    row.PageDataHash,
		StartedAt:   row.StartedAt,
		FinishedAt:  row.FinishedAt,
	}
}
