package sqlitestore

import (
	"database/sql"
	"fmt"
)

type migration struct {
	version int
	name    string
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		name:    "initial_schema",
		sql: `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS profiles (
  user_id INTEGER PRIMARY KEY,
  age INTEGER,
  sex TEXT,
  height_cm REAL,
  weight_kg REAL,
  activity_factor REAL,
  goal TEXT,
  kcal_target INTEGER,
  protein_target REAL,
  fat_target REAL,
  carbs_target REAL
);

CREATE TABLE IF NOT EXISTS days (
  user_id INTEGER NOT NULL,
  date TEXT NOT NULL,
  calories REAL NOT NULL DEFAULT 0,
  protein_g REAL NOT NULL DEFAULT 0,
  fat_g REAL NOT NULL DEFAULT 0,
  carbs_g REAL NOT NULL DEFAULT 0,
  PRIMARY KEY(user_id, date)
);

CREATE TABLE IF NOT EXISTS entries (
  user_id INTEGER NOT NULL,
  date TEXT NOT NULL,
  position INTEGER NOT NULL,
  calories REAL NOT NULL CHECK(calories >= 0),
  protein_g REAL NOT NULL CHECK(protein_g >= 0),
  fat_g REAL NOT NULL CHECK(fat_g >= 0),
  carbs_g REAL NOT NULL CHECK(carbs_g >= 0),
  description TEXT,
  kcal INTEGER,
  added_at DATETIME,
  PRIMARY KEY(user_id, date, position)
);

CREATE INDEX IF NOT EXISTS idx_entries_user_date ON entries(user_id, date);
`,
	},
	{
		version: 2,
		name:    "pro_access_and_weigh_ins",
		sql: `
ALTER TABLE profiles ADD COLUMN subscription_end TEXT;
ALTER TABLE profiles ADD COLUMN trial_used INTEGER;

CREATE TABLE IF NOT EXISTS promo_redemptions (
  user_id INTEGER NOT NULL,
  code TEXT NOT NULL,
  PRIMARY KEY(user_id, code)
);

CREATE TABLE IF NOT EXISTS weigh_ins (
  user_id INTEGER NOT NULL,
  position INTEGER NOT NULL,
  date TEXT NOT NULL,
  weight_kg REAL NOT NULL CHECK(weight_kg > 0),
  PRIMARY KEY(user_id, position)
);
`,
	},
}

func applyMigrations(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	for _, m := range migrations {
		var applied int
		if err := db.QueryRow(`SELECT COUNT(1) FROM schema_migrations WHERE version = ?`, m.version).Scan(&applied); err != nil {
			return fmt.Errorf("check migration %d: %w", m.version, err)
		}
		if applied > 0 {
			continue
		}
		if _, err := db.Exec(m.sql); err != nil {
			return fmt.Errorf("apply migration %d (%s): %w", m.version, m.name, err)
		}
		if _, err := db.Exec(`INSERT INTO schema_migrations(version, name) VALUES(?, ?)`, m.version, m.name); err != nil {
			return fmt.Errorf("record migration %d: %w", m.version, err)
		}
	}
	return nil
}
