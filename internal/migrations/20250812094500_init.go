package migrations

import (
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigration(upInit, downInit)
}

func upInit(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE seen_posts (
		id SERIAL PRIMARY KEY,
		post_id VARCHAR NOT NULL UNIQUE,
		username VARCHAR NOT NULL,
		caption TEXT,
		seen_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE TABLE seen_stories (
		id SERIAL PRIMARY KEY,
		story_id VARCHAR NOT NULL UNIQUE,
		username VARCHAR NOT NULL,
		seen_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`)
	if err != nil {
		return err
	}
	return nil
}

func downInit(tx *sql.Tx) error {
	_, err := tx.Exec(`
	DROP TABLE seen_stories;
	DROP TABLE seen_posts;
	`)
	if err != nil {
		return err
	}
	return nil
}
