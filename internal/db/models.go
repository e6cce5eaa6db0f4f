package db

const (
	BuildStatusSucceeded = "succeeded"
	BuildStatusFailed    = "failed"
)

type BuildRow struct {
	ID           string
	SiteTitle    string
	SiteDir      string
	OutDir       string
	Status       string
	PageCount    int
	SitemapURLs  int
	BuildLog     string
	PageDataHash string // empty when no snapshot was kept
	StartedAt    string
	FinishedAt   string
	CreatedAt    string
}

type BuildPageRow struct {
	ID           int64
	BuildID      string
	Route        string
	RelativePath string
	Keywords     string
	HeadCount    int
}
