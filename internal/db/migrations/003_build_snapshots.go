package migrations

const buildSnapshotsMigrationSQL = `
ALTER TABLE builds ADD COLUMN pagedata_hash TEXT NOT NULL DEFAULT '';
`
