package migrations

type Migration struct {
	Version int
	Name    string
	UpSQL   string
}

func All() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "build_history",
			UpSQL:   buildHistorySchemaSQL,
		},
		{
			Version: 2,
			Name:    "build_pages",
			UpSQL:   buildPagesSchemaSQL,
		},
		{
			Version: 3,
			Name:    "build_snapshots",
			UpSQL:   buildSnapshotsMigrationSQL,
		},
	}
}
