package migrations

import (
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigration(upSeenIndexes, downSeenIndexes)
}

func upSeenIndexes(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE INDEX idx_seen_posts_username ON seen_posts (username);
	CREATE INDEX idx_seen_posts_seen_at ON seen_posts (seen_at);
	CREATE INDEX idx_seen_stories_username ON seen_stories (username);
	CREATE INDEX idx_seen_stories_seen_at ON seen_stories (seen_at);
	`)
	if err != nil {
		return err
	}
	return nil
}

func downSeenIndexes(tx *sql.Tx) error {
	_, err := tx.Exec(`
	DROP INDEX idx_seen_posts_username;
	DROP INDEX idx_seen_posts_seen_at;
	DROP INDEX idx_seen_stories_username;
	DROP INDEX idx_seen_stories_seen_at;
	`)
	if err != nil {
		return err
	}
	return nil
}
