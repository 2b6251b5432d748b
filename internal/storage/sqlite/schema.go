package sqlite

// Schema creates the tables used by TreeStore. Every statement is
// idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS tree_rows (
	position INTEGER PRIMARY KEY,
	name     TEXT NOT NULL,
	mother   TEXT NOT NULL DEFAULT '',
	father   TEXT NOT NULL DEFAULT '',
	spouse   TEXT NOT NULL DEFAULT '',
	blurb    TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_tree_rows_name ON tree_rows(name);

CREATE TABLE IF NOT EXISTS imports (
	id          TEXT PRIMARY KEY,
	source      TEXT NOT NULL DEFAULT '',
	row_count   INTEGER NOT NULL,
	imported_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_imports_imported_at ON imports(imported_at);
`
