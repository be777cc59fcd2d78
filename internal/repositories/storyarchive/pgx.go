package storyarchive

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minhnghia2k3/lumigram/internal/domain"
	"github.com/minhnghia2k3/lumigram/internal/repositories"
	"github.com/minhnghia2k3/lumigram/pkg/logger"
)

type PgxRepository struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

func NewPgxRepository(pool *pgxpool.Pool, logger logger.Logger) *PgxRepository {
	return &PgxRepository{
		pool:   pool,
		logger: logger,
	}
}

func (r *PgxRepository) Exists(ctx context.Context, storyID string) (bool, error) {
	query, args, err := repositories.SqBuilder.
		Select("1").
		From("seen_stories").
		Where("story_id = ?", storyID).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build exists query: %w", err)
	}

	var one int
	err = r.pool.QueryRow(ctx, query, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check seen story: %w", err)
	}
	return true, nil
}

func (r *PgxRepository) Mark(ctx context.Context, story domain.Story) error {
	query, args, err := repositories.SqBuilder.
		Insert("seen_stories").
		Columns("story_id", "username", "seen_at").
		Values(story.ID, story.Username, time.Now()).
		Suffix("ON CONFLICT (story_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build mark query: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to mark story as seen: %w", err)
	}
	return nil
}

func (r *PgxRepository) GetByUsername(ctx context.Context, username string) ([]*SeenStory, error) {
	query, args, err := repositories.SqBuilder.
		Select("id", "story_id", "username", "seen_at").
		From("seen_stories").
		Where("username = ?", username).
		OrderBy("seen_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query seen stories: %w", err)
	}
	defer rows.Close()

	var list []*SeenStory
	for rows.Next() {
		var ss SeenStory
		if err := rows.Scan(&ss.ID, &ss.StoryID, &ss.Username, &ss.SeenAt); err != nil {
			return nil, fmt.Errorf("failed to scan seen story row: %w", err)
		}
		list = append(list, &ss)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating seen story rows: %w", err)
	}

	if len(list) == 0 {
		return nil, ErrNotFound
	}
	return list, nil
}

func (r *PgxRepository) CleanupOldRecords(ctx context.Context, olderThan time.Duration) (int64, error) {
	query, args, err := repositories.SqBuilder.
		Delete("seen_stories").
		Where("seen_at < ?", time.Now().Add(-olderThan)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build cleanup query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up seen stories: %w", err)
	}
	return tag.RowsAffected(), nil
}

var _ Repository = (*PgxRepository)(nil)
