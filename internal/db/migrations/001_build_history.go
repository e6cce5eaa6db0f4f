package migrations

const buildHistorySchemaSQL = `
CREATE TABLE IF NOT EXISTS builds (
    id TEXT PRIMARY KEY,
    site_title TEXT NOT NULL DEFAULT '',
    site_dir TEXT NOT NULL,
    out_dir TEXT NOT NULL,
    status TEXT NOT NULL CHECK(status IN ('succeeded', 'failed')),
    page_count INTEGER NOT NULL DEFAULT 0,
    sitemap_urls INTEGER NOT NULL DEFAULT 0,
    build_log TEXT NOT NULL DEFAULT '',
    started_at TEXT NOT NULL,
    finished_at TEXT NOT NULL,
    created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
);

CREATE INDEX IF NOT EXISTS idx_builds_started_at ON builds(started_at);
`
