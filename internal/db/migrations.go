package db

import (
	"database/sql"
	"fmt"
)

const baseSchema = `
CREATE TABLE IF NOT EXISTS feeds (
  id TEXT PRIMARY KEY,
  title TEXT,
  url TEXT NOT NULL,
  description TEXT,
  image TEXT,
  error_at TEXT,
  site_url TEXT,
  owner_user_id TEXT,
  error_message TEXT
);

CREATE TABLE IF NOT EXISTS subscriptions (
  id TEXT PRIMARY KEY,
  feed_id TEXT,
  list_id TEXT,
  inbox_id TEXT,
  user_id TEXT NOT NULL,
  view INTEGER NOT NULL DEFAULT 0,
  is_private INTEGER NOT NULL DEFAULT 0,
  title TEXT,
  category TEXT,
  created_at TEXT NOT NULL,
  type TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_subscriptions_user_id ON subscriptions(user_id);
CREATE INDEX IF NOT EXISTS idx_subscriptions_feed_id ON subscriptions(feed_id);

CREATE TABLE IF NOT EXISTS inboxes (
  id TEXT PRIMARY KEY,
  title TEXT
);

CREATE TABLE IF NOT EXISTS lists (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  title TEXT NOT NULL,
  feed_ids TEXT NOT NULL DEFAULT '[]',
  description TEXT,
  view INTEGER NOT NULL DEFAULT 0,
  image TEXT,
  fee INTEGER NOT NULL DEFAULT 0,
  owner_user_id TEXT
);

CREATE TABLE IF NOT EXISTS unread (
  subscription_id TEXT PRIMARY KEY,
  count INTEGER NOT NULL DEFAULT 0 CHECK (count >= 0)
);

CREATE TABLE IF NOT EXISTS entries (
  id TEXT PRIMARY KEY,
  guid TEXT NOT NULL,
  title TEXT,
  url TEXT,
  content TEXT,
  readability_content TEXT,
  description TEXT,
  author TEXT,
  author_url TEXT,
  author_avatar TEXT,
  published_at TEXT NOT NULL,
  inserted_at TEXT NOT NULL,
  media TEXT,
  categories TEXT,
  attachments TEXT,
  extra TEXT,
  feed_id TEXT,
  inbox_handle TEXT,
  read INTEGER NOT NULL DEFAULT 0,
  sources TEXT,
  settings TEXT,
  CHECK ((feed_id IS NULL) <> (inbox_handle IS NULL))
);

CREATE INDEX IF NOT EXISTS idx_entries_feed_id ON entries(feed_id);
CREATE INDEX IF NOT EXISTS idx_entries_inbox_handle ON entries(inbox_handle);

CREATE TABLE IF NOT EXISTS translations (
  entry_id TEXT NOT NULL,
  language TEXT NOT NULL,
  title TEXT,
  description TEXT,
  content TEXT,
  readability_content TEXT,
  created_at TEXT NOT NULL,
  UNIQUE (entry_id, language),
  FOREIGN KEY (entry_id) REFERENCES entries(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS cleaner (
  ref_id TEXT NOT NULL,
  type TEXT NOT NULL,
  visited_at INTEGER NOT NULL,
  PRIMARY KEY (ref_id, type)
);

CREATE INDEX IF NOT EXISTS idx_cleaner_visited_at ON cleaner(visited_at);
`

func Migrate(db *sql.DB) error {
	if _, err := db.Exec(baseSchema); err != nil {
		return fmt.Errorf("migrate base schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

func runMigrations(db *sql.DB) error {
	// Migration 1: starred flag on entries
	if err := addColumnIfMissing(db, "entries", "starred", "INTEGER NOT NULL DEFAULT 0"); err != nil {
		return err
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_entries_starred ON entries(starred)`); err != nil {
		return fmt.Errorf("create idx_entries_starred: %w", err)
	}

	// Migration 2: unread lookups by feed go through subscriptions
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_entries_feed_read ON entries(feed_id, read)`); err != nil {
		return fmt.Errorf("create idx_entries_feed_read: %w", err)
	}

	return nil
}

func addColumnIfMissing(db *sql.DB, table, column, definition string) error {
	var count int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`,
		table, column,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("check %s.%s column: %w", table, column, err)
	}
	if count > 0 {
		return nil
	}
	if _, err := db.Exec(fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s`, table, column, definition)); err != nil {
		return fmt.Errorf("add %s.%s column: %w", table, column, err)
	}
	return nil
}
