package migrations

const buildPagesSchemaSQL = `
CREATE TABLE IF NOT EXISTS build_pages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    build_id TEXT NOT NULL REFERENCES builds(id) ON DELETE CASCADE,
    route TEXT NOT NULL,
    relative_path TEXT NOT NULL DEFAULT '',
    keywords TEXT NOT NULL DEFAULT '',
    head_count INTEGER NOT NULL DEFAULT 0,
    UNIQUE(build_id, route)
);

CREATE INDEX IF NOT EXISTS idx_build_pages_build_id ON build_pages(build_id);
`
