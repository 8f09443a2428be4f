package sqlite

const schemaVersion = 1

const schema = `
-- Operator settings overriding the config file
CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS schema_info (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    version INTEGER NOT NULL
);

-- Triggers for updated_at
CREATE TRIGGER IF NOT EXISTS update_settings_timestamp AFTER UPDATE ON settings
BEGIN
    UPDATE settings SET updated_at = CURRENT_TIMESTAMP WHERE key = NEW.key;
END;
`

const defaultData = `
INSERT OR IGNORE INTO schema_info (id, version) VALUES (1, ?);
`

// runMigrations executes the database schema and default data
func runMigrations(db *DB) error {
	if _, err := db.db.Exec(schema); err != nil {
		return err
	}

	if _, err := db.db.Exec(defaultData, schemaVersion); err != nil {
		return err
	}

	return nil
}
