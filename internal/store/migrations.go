package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS issues (
	key         TEXT PRIMARY KEY,
	summary     TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL DEFAULT '',
	issue_type  TEXT NOT NULL DEFAULT '',
	parent_key  TEXT NOT NULL DEFAULT '',
	rank        TEXT NOT NULL DEFAULT '',
	seq         INTEGER NOT NULL,
	updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS issue_labels (
	issue_key TEXT NOT NULL REFERENCES issues(key) ON DELETE CASCADE,
	label     TEXT NOT NULL,
	position  INTEGER NOT NULL,
	PRIMARY KEY (issue_key, label)
);

CREATE INDEX IF NOT EXISTS idx_issue_labels_label ON issue_labels(label);
CREATE INDEX IF NOT EXISTS idx_issues_seq ON issues(seq);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS transitions (
	status_from TEXT NOT NULL,
	name        TEXT NOT NULL,
	status_to   TEXT NOT NULL,
	PRIMARY KEY (status_from, status_to)
);

CREATE TABLE IF NOT EXISTS status_history (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	issue_key   TEXT NOT NULL REFERENCES issues(key) ON DELETE CASCADE,
	status_from TEXT NOT NULL,
	status_to   TEXT NOT NULL,
	changed_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_status_history_issue ON status_history(issue_key);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
