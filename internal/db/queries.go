package db

import (
	"context"
	"database/sql"
	"fmt"
)

type queryer interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type Queries struct {
	db queryer
}

const buildColumns = `id, site_title, site_dir, out_dir, status, page_count, sitemap_urls, build_log, pagedata_hash, started_at, finished_at, created_at`

func NewQueries(db queryer) *Queries {
	return &Queries{db: db}
}

func (q *Queries) InsertBuild(ctx context.Context, in BuildRow) error {
	_, err := q.db.ExecContext(ctx, `INSERT INTO builds(id, site_title, site_dir, out_dir, status, page_count, sitemap_urls, build_log, pagedata_hash, started_at, finished_at) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.SiteTitle, in.SiteDir, in.OutDir, in.Status, in.PageCount, in.SitemapURLs, in.BuildLog, in.PageDataHash, in.StartedAt, in.FinishedAt)
	if err != nil {
		return fmt.Errorf("insert build: %w", err)
	}
	return nil
}

func (q *Queries) InsertBuildPage(ctx context.Context, in BuildPageRow) (int64, error) {
	res, err := q.db.ExecContext(ctx, `INSERT INTO build_pages(build_id, route, relative_path, keywords, head_count) VALUES(?, ?, ?, ?, ?)`,
		in.BuildID, in.Route, in.RelativePath, in.Keywords, in.HeadCount)
	if err != nil {
		return 0, fmt.Errorf("insert build page: %w", err)
	}
	return lastInsertID("insert build page", res)
}

func (q *Queries) GetBuild(ctx context.Context, id string) (BuildRow, error) {
	var out BuildRow
	err := scanBuild(q.db.QueryRowContext(ctx, `SELECT `+buildColumns+` FROM builds WHERE id = ?`, id), &out)
	if err != nil {
		return out, fmt.Errorf("get build by id: %w", err)
	}
	return out, nil
}

// ListBuilds returns builds newest first. A limit <= 0 returns every build.
func (q *Queries) ListBuilds(ctx context.Context, limit int) ([]BuildRow, error) {
	query := `SELECT ` + buildColumns + ` FROM builds ORDER BY started_at DESC, id DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list builds: %w", err)
	}
	defer rows.Close()

	out := []BuildRow{}
	for rows.Next() {
		var row BuildRow
		if err := scanBuild(rows, &row); err != nil {
			return nil, fmt.Errorf("scan build row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate build rows: %w", err)
	}
	return out, nil
}

func (q *Queries) ListBuildPages(ctx context.Context, buildID string) ([]BuildPageRow, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT id, build_id, route, relative_path, keywords, head_count FROM build_pages WHERE build_id = ? ORDER BY route ASC`, buildID)
	if err != nil {
		return nil, fmt.Errorf("list build pages: %w", err)
	}
	defer rows.Close()

	out := []BuildPageRow{}
	for rows.Next() {
		var row BuildPageRow
		if err := rows.Scan(&row.ID, &row.BuildID, &row.Route, &row.RelativePath, &row.Keywords, &row.HeadCount); err != nil {
			return nil, fmt.Errorf("scan build page row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate build page rows: %w", err)
	}
	return out, nil
}

// PruneBuilds deletes every build except the newest keep builds. Pages of
// deleted builds go with them.
func (q *Queries) PruneBuilds(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := q.db.ExecContext(ctx, `DELETE FROM builds WHERE id NOT IN (SELECT id FROM builds ORDER BY started_at DESC, id DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune builds: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune builds rows affected: %w", err)
	}
	return n, nil
}

// ReferencedPageDataHashes returns the distinct snapshot hashes still
// referenced by a recorded build.
func (q *Queries) ReferencedPageDataHashes(ctx context.Context) (map[string]bool, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT DISTINCT pagedata_hash FROM builds WHERE pagedata_hash != ''`)
	if err != nil {
		return nil, fmt.Errorf("list page data hashes: %w", err)
	}
	defer rows.Close()

	out := map[string]bool{}
	for rows.Next() {
		var hash string
		if err := rows.Scan(&hash); err != nil {
			return nil, fmt.Errorf("scan page data hash: %w", err)
		}
		out[hash] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate page data hashes: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBuild(row rowScanner, out *BuildRow) error {
	return row.Scan(&out.ID, &out.SiteTitle, &out.SiteDir, &out.OutDir, &out.Status, &out.PageCount, &out.SitemapURLs, &out.BuildLog, &out.PageDataHash, &out.StartedAt, &out.FinishedAt, &out.CreatedAt)
}

func lastInsertID(op string, res sql.Result) (int64, error) {
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s last insert id: %w", op, err)
	}
	return id, nil
}
