package build

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	dbpkg "github.com/like-buer/blog/internal/db"
	"github.com/like-buer/blog/internal/snapshot"
	"github.com/like-buer/blog/pkg/loader"
	"github.com/like-buer/blog/pkg/model"
	"github.com/like-buer/blog/pkg/pagedata"
	"github.com/like-buer/blog/pkg/sitemap"
)

type Result struct {
	BuildID      string
	Site         *model.Site
	Pages        []model.PageData
	OutDir       string
	PageDataPath string
	SitemapPath  string
	SitemapURLs  int
	PageDataHash string
	BuildLog     string
}

// Builder runs the page-data pass over a site directory and, when a history
// database is configured, records every attempt in it.
type Builder struct {
	db        *sql.DB
	snapshots *snapshot.Store
	logger    *slog.Logger
	nowFn     func() time.Time
	idFn      func(time.Time) (string, error)
}

// NewBuilder returns a Builder. db may be nil to skip build history and
// snapshots may be nil to skip keeping pagedata.json per build.
func NewBuilder(db *sql.DB, snapshots *snapshot.Store, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		db:        db,
		snapshots: snapshots,
		logger:    logger,
		nowFn:     time.Now,
		idFn:      NewBuildID,
	}
}

// Prepare loads the site at siteDir and runs the page-data pipeline over
// every page. Each registered transform sees each page exactly once.
func (b *Builder) Prepare(ctx context.Context, siteDir string) (*model.PageBundle, error) {
	return b.prepare(ctx, siteDir, nil)
}

func (b *Builder) prepare(ctx context.Context, siteDir string, log *buildLog) (*model.PageBundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bundle, err := loader.Load(siteDir)
	if err != nil {
		return nil, err
	}
	if log != nil {
		log.Addf("loaded site %q with %d pages from %s", bundle.Site.Title, len(bundle.Pages), bundle.Site.RootDir)
	}

	pipeline := NewPipeline(&bundle.Site)
	pages, err := pipeline.Apply(ctx, bundle.Pages)
	if err != nil {
		return nil, fmt.Errorf("transform page data: %w", err)
	}
	if log != nil {
		log.Addf("applied %d page-data transforms", pipeline.Len())
	}
	bundle.Pages = pages
	return bundle, nil
}

// NewPipeline returns the page-data pipeline for site.
func NewPipeline(site *model.Site) *pagedata.Pipeline {
	var cfg model.KeywordsConfig
	if site != nil {
		cfg = site.Transform.Keywords
	}
	return pagedata.NewPipeline(pagedata.NewKeywordsTransform(cfg))
}

// Build prepares the site at siteDir and writes pagedata.json and, when the
// site configures a sitemap hostname, sitemap.xml into outDir. An empty outDir
// means the site's configured outDir, relative to siteDir.
func (b *Builder) Build(ctx context.Context, siteDir, outDir string) (out Result, err error) {
	startedAt := b.nowFn().UTC()
	buildID, err := b.idFn(startedAt)
	if err != nil {
		return out, err
	}
	out.BuildID = buildID
	out.OutDir = strings.TrimSpace(outDir)

	log := newBuildLog(b.nowFn)
	log.Addf("starting build id=%s site=%s", buildID, siteDir)

	defer func() {
		if err != nil {
			log.Addf("build failed: %v", err)
		}
		out.BuildLog = log.String()
		b.record(context.WithoutCancel(ctx), siteDir, startedAt, out, err)
	}()

	bundle, err := b.prepare(ctx, siteDir, log)
	if err != nil {
		return out, err
	}
	out.Site = &bundle.Site
	out.Pages = bundle.Pages
	if out.OutDir == "" {
		out.OutDir = bundle.Site.OutDir
		if !filepath.IsAbs(out.OutDir) {
			out.OutDir = filepath.Join(bundle.Site.RootDir, out.OutDir)
		}
	}

	if err := ctx.Err(); err != nil {
		return out, err
	}
	payload, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return out, fmt.Errorf("marshal page data: %w", err)
	}
	payload = append(payload, '\n')
	out.PageDataPath = filepath.Join(out.OutDir, PageDataFileName)
	if err := writeFileAtomic(out.PageDataPath, payload); err != nil {
		return out, err
	}
	log.Addf("wrote %s", out.PageDataPath)
	if b.snapshots != nil {
		hash, created, err := b.snapshots.Put(ctx, payload)
		if err != nil {
			return out, fmt.Errorf("store page data snapshot: %w", err)
		}
		out.PageDataHash = hash
		log.Addf("page data snapshot sha256=%s new=%t", hash, created)
	}

	if err := ctx.Err(); err != nil {
		return out, err
	}
	sitemapXML, urls, err := sitemap.Generate(bundle.Site.Sitemap.Hostname, bundle.Pages, log)
	if err != nil {
		return out, err
	}
	if sitemapXML == nil {
		log.Addf("no sitemap hostname configured; skipping %s", sitemap.FileName)
	} else {
		out.SitemapPath = filepath.Join(out.OutDir, sitemap.FileName)
		if err := writeFileAtomic(out.SitemapPath, sitemapXML); err != nil {
			return out, err
		}
		out.SitemapURLs = urls
		log.Addf("wrote %s with %d urls", out.SitemapPath, urls)
	}

	log.Addf("build succeeded pages=%d", len(out.Pages))
	b.logger.Info("build finished", "build_id", buildID, "pages", len(out.Pages), "sitemap_urls", out.SitemapURLs, "out_dir", out.OutDir)
	return out, nil
}

func (b *Builder) record(ctx context.Context, siteDir string, startedAt time.Time, out Result, cause error) {
	if b.db == nil {
		return
	}
	if err := b.insertHistory(ctx, siteDir, startedAt, out, cause); err != nil {
		b.logger.Error("failed to persist build history", "build_id", out.BuildID, "error", err)
	}
}

func (b *Builder) insertHistory(ctx context.Context, siteDir string, startedAt time.Time, out Result, cause error) (err error) {
	row := dbpkg.BuildRow{
		ID:          out.BuildID,
		SiteDir:     siteDir,
		OutDir:      out.OutDir,
		Status:      dbpkg.BuildStatusSucceeded,
		PageCount:   len(out.Pages),
		SitemapURLs: out.SitemapURLs,
		BuildLog:    out.BuildLog,
		StartedAt:   startedAt.Format(time.RFC3339Nano),
		FinishedAt:  b.nowFn().UTC().Format(time.RFC3339Nano),
	}
	if out.Site != nil {
		row.SiteTitle = out.Site.Title
		row.SiteDir = out.Site.RootDir
	}
	if cause != nil {
		row.Status = dbpkg.BuildStatusFailed
	} else {
		row.PageDataHash = out.PageDataHash
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin build history transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	q := dbpkg.NewQueries(tx)
	if err := q.InsertBuild(ctx, row); err != nil {
		return err
	}
	if cause == nil {
		for _, page := range out.Pages {
			keywords, _ := pagedata.KeywordsMeta(page.Frontmatter.Head)
			if _, err := q.InsertBuildPage(ctx, dbpkg.BuildPageRow{
				BuildID:      out.BuildID,
				Route:        page.Route,
				RelativePath: page.RelativePath,
				Keywords:     keywords,
				HeadCount:    len(page.Frontmatter.Head),
			}); err != nil {
				return err
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit build history: %w", err)
	}
	return nil
}
