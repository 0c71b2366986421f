package postgres

import "fmt"

// EnsureSchema creates the tables the adapter needs on first run. Every
// statement uses IF NOT EXISTS so reruns against an existing database
// are harmless.
func (a *Adapter) EnsureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS districts (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			state TEXT NOT NULL,
			county TEXT NOT NULL,
			enrollment INT NOT NULL DEFAULT 0,
			ell_pct DOUBLE PRECISION NOT NULL DEFAULT 0,
			swd_pct DOUBLE PRECISION NOT NULL DEFAULT 0,
			owner TEXT NOT NULL DEFAULT '',
			vendors TEXT[] NOT NULL DEFAULT '{}',
			tags TEXT[] NOT NULL DEFAULT '{}'
		)`,
		`CREATE INDEX IF NOT EXISTS idx_districts_state ON districts(state)`,
		`CREATE INDEX IF NOT EXISTS idx_districts_owner ON districts(owner)`,
		`CREATE TABLE IF NOT EXISTS plans (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			owner TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS plan_districts (
			plan_id TEXT NOT NULL REFERENCES plans(id),
			district_id TEXT NOT NULL REFERENCES districts(id),
			PRIMARY KEY (plan_id, district_id)
		)`,
		`CREATE TABLE IF NOT EXISTS activities (
			id TEXT PRIMARY KEY,
			district_id TEXT NOT NULL REFERENCES districts(id),
			kind TEXT NOT NULL,
			subject TEXT NOT NULL,
			owner TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			due_date TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			plan_id TEXT NOT NULL REFERENCES plans(id),
			title TEXT NOT NULL,
			owner TEXT NOT NULL DEFAULT '',
			done BOOLEAN NOT NULL DEFAULT FALSE,
			due_date TEXT NOT NULL DEFAULT '',
			priority INT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS contacts (
			id TEXT PRIMARY KEY,
			district_id TEXT NOT NULL REFERENCES districts(id),
			name TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			is_primary BOOLEAN NOT NULL DEFAULT FALSE
		)`,
	}
	for i, s := range stmts {
		if _, err := a.db.Exec(s); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	a.log.V(1).Info("schema ensured")
	return nil
}
