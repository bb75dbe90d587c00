package articleinfra

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS articles (
		id            TEXT PRIMARY KEY,
		topic         TEXT NOT NULL,
		tier          TEXT NOT NULL,
		formats       JSONB NOT NULL,
		status        TEXT NOT NULL,
		progress      INTEGER NOT NULL DEFAULT 0,
		content       JSONB,
		research_data JSONB,
		metadata      JSONB,
		error         TEXT,
		client_ip     TEXT NOT NULL DEFAULT '',
		fingerprint   TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL,
		completed_at  TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_created_at ON articles (created_at DESC, id DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_status ON articles (status, created_at DESC)`,
}

// Timestamps are fixed-width UTC text, see sqliteTimeLayout.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS articles (
		id            TEXT PRIMARY KEY,
		topic         TEXT NOT NULL,
		tier          TEXT NOT NULL,
		formats       TEXT NOT NULL,
		status        TEXT NOT NULL,
		progress      INTEGER NOT NULL DEFAULT 0,
		content       TEXT,
		research_data TEXT,
		metadata      TEXT,
		error         TEXT,
		client_ip     TEXT NOT NULL DEFAULT '',
		fingerprint   TEXT NOT NULL DEFAULT '',
		created_at    TEXT NOT NULL,
		completed_at  TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_created_at ON articles (created_at DESC, id DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_status ON articles (status, created_at DESC)`,
}
