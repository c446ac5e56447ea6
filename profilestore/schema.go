package profilestore

// Schema is the profile store DDL. Pass to dbopen.WithSchema at open.
const Schema = `
CREATE TABLE IF NOT EXISTS profiles (
	id               TEXT PRIMARY KEY,
	owner_id         TEXT NOT NULL UNIQUE,
	business_name    TEXT NOT NULL,
	category         TEXT NOT NULL,
	description      TEXT NOT NULL DEFAULT '',
	target_audience  TEXT NOT NULL DEFAULT '',
	location_json    TEXT NOT NULL DEFAULT '{}',
	contact_json     TEXT NOT NULL DEFAULT '{}',
	services_json    TEXT NOT NULL DEFAULT '[]',
	credentials_json TEXT NOT NULL DEFAULT '[]',
	social_json      TEXT NOT NULL DEFAULT '[]',
	attributes_json  TEXT NOT NULL DEFAULT '[]',
	created_at       INTEGER NOT NULL,
	updated_at       INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS scrape_log (
	id          TEXT PRIMARY KEY,
	owner_id    TEXT NOT NULL,
	seed_url    TEXT NOT NULL,
	method      TEXT NOT NULL,
	confidence  REAL NOT NULL,
	page_count  INTEGER NOT NULL DEFAULT 0,
	status      TEXT NOT NULL,
	error       TEXT NOT NULL DEFAULT '',
	duration_ms INTEGER NOT NULL DEFAULT 0,
	created_at  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_scrape_log_owner ON scrape_log(owner_id, created_at DESC);
`
