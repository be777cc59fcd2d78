package feedarchive

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

func (r *PgxRepository) Exists(ctx context.Context, postID string) (bool, error) {
	query, args, err := repositories.SqBuilder.
		Select("1").
		From("seen_posts").
		Where("post_id = ?", postID).
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
		return false, fmt.Errorf("failed to check seen post: %w", err)
	}
	return true, nil
}

func (r *PgxRepository) Mark(ctx context.Context, post domain.Post) error {
	query, args, err := repositories.SqBuilder.
		Insert("seen_posts").
		Columns("post_id", "username", "caption", "seen_at").
		Values(post.ID, post.Username, post.Caption, time.Now()).
		Suffix("ON CONFLICT (post_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build mark query: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to mark post as seen: %w", err)
	}
	return nil
}

func (r *PgxRepository) GetByUsername(ctx context.Context, username string) ([]*SeenPost, error) {
	query, args, err := repositories.SqBuilder.
		Select("id", "post_id", "username", "caption", "seen_at").
		From("seen_posts").
		Where("username = ?", username).
		OrderBy("seen_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query seen posts: %w", err)
	}
	defer rows.Close()

	var list []*SeenPost
	for rows.Next() {
		var sp SeenPost
		if err := rows.Scan(&sp.ID, &sp.PostID, &sp.Username, &sp.Caption, &sp.SeenAt); err != nil {
			return nil, fmt.Errorf("failed to scan seen post row: %w", err)
		}
		list = append(list, &sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating seen post rows: %w", err)
	}

	if len(list) == 0 {
		return nil, ErrNotFound
	}
	return list, nil
}

func (r *PgxRepository) CleanupOldRecords(ctx context.Context, olderThan time.Duration) (int64, error) {
	query, args, err := repositories.SqBuilder.
		Delete("seen_posts").
		Where("seen_at < ?", time.Now().Add(-olderThan)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build cleanup query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up seen posts: %w", err)
	}
	return tag.RowsAffected(), nil
}

var _ Repository = (*PgxRepository)(nil)
