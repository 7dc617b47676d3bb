package post

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/postforge/postforge/internal/loggy"
	"github.com/postforge/postforge/internal/ulid"
)

// Repository defines post storage operations
type Repository interface {
	// SavePosts persists a batch of posts in one transaction
	SavePosts(ctx context.Context, posts []*Post) error

	// GetPost retrieves a post by ID
	GetPost(ctx context.Context, id string) (*Post, error)

	// ListBatch retrieves all posts of a batch ordered by batch index
	ListBatch(ctx context.Context, batchID string) ([]*Post, error)

	// ListRecent retrieves the most recent posts, optionally filtered
	// by platform
	ListRecent(ctx context.Context, platform string, limit int) ([]*Post, error)

	// RecentTexts returns the text of the most recent posts for a
	// platform, newest first
	RecentTexts(ctx context.Context, platform string, limit int) ([]string, error)

	// DeleteBatch removes all posts of a batch and returns the number
	// of posts deleted
	DeleteBatch(ctx context.Context, batchID string) (int64, error)
}

// SQLRepository implements Repository using SQL database
type SQLRepository struct {
	db     *sql.DB
	logger *loggy.Logger
}

// NewSQLRepository creates a new SQL repository for posts
func NewSQLRepository(db *sql.DB, logger *loggy.Logger) *SQLRepository {
	return &SQLRepository{
		db:     db,
		logger: logger,
	}
}

var postColumns = []string{
	"id", "batch_id", "batch_index", "platform", "provider",
	"model", "text", "char_count", "created_at",
}

// SavePosts persists a batch of posts in one transaction
func (r *SQLRepository) SavePosts(ctx context.Context, posts []*Post) error {
	if len(posts) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning save posts transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().UTC()
	q := squirrel.Insert("posts").Columns(postColumns...)
	for _, p := range posts {
		if p.ID == "" {
			p.ID = ulid.PostID()
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		q = q.Values(
			p.ID, p.BatchID, p.Index, p.Platform, p.Provider,
			p.Model, p.Text, p.CharCount, p.CreatedAt,
		)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("building save posts query: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("executing save posts query: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save posts transaction: %w", err)
	}

	return nil
}

// GetPost retrieves a post by ID
func (r *SQLRepository) GetPost(ctx context.Context, id string) (*Post, error) {
	q := squirrel.Select(postColumns...).
		From("posts").
		Where(squirrel.Eq{"id": id})

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building get post query: %w", err)
	}

	var p Post
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&p.ID, &p.BatchID, &p.Index, &p.Platform, &p.Provider,
		&p.Model, &p.Text, &p.CharCount, &p.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("post not found: %s", id)
		}
		return nil, fmt.Errorf("scanning post: %w", err)
	}

	return &p, nil
}

// ListBatch retrieves all posts of a batch ordered by batch index
func (r *SQLRepository) ListBatch(ctx context.Context, batchID string) ([]*Post, error) {
	q := squirrel.Select(postColumns...).
		From("posts").
		Where(squirrel.Eq{"batch_id": batchID}).
		OrderBy("batch_index ASC")

	return r.queryPosts(ctx, q, "list batch")
}

// ListRecent retrieves the most recent posts, optionally filtered
// by platform
func (r *SQLRepository) ListRecent(ctx context.Context, platform string, limit int) ([]*Post, error) {
	q := squirrel.Select(postColumns...).
		From("posts").
		OrderBy("created_at DESC, batch_index ASC")
	if platform != "" {
		q = q.Where(squirrel.Eq{"platform": platform})
	}
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	return r.queryPosts(ctx, q, "list recent posts")
}

// RecentTexts returns the text of the most recent posts for a
// platform, newest first
func (r *SQLRepository) RecentTexts(ctx context.Context, platform string, limit int) ([]string, error) {
	posts, err := r.ListRecent(ctx, platform, limit)
	if err != nil {
		return nil, err
	}

	texts := make([]string, 0, len(posts))
	for _, p := range posts {
		if p.Text != "" {
			texts = append(texts, p.Text)
		}
	}
	return texts, nil
}

// DeleteBatch removes all posts of a batch and returns the number
// of posts deleted
func (r *SQLRepository) DeleteBatch(ctx context.Context, batchID string) (int64, error) {
	q := squirrel.Delete("posts").
		Where(squirrel.Eq{"batch_id": batchID})

	query, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("building delete batch query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("executing delete batch query: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("getting deleted row count: %w", err)
	}

	return deleted, nil
}

func (r *SQLRepository) queryPosts(ctx context.Context, q squirrel.SelectBuilder, op string) ([]*Post, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building %s query: %w", op, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing %s query: %w", op, err)
	}
	defer rows.Close()

	var posts []*Post
	for rows.Next() {
		var p Post
		err := rows.Scan(
			&p.ID, &p.BatchID, &p.Index, &p.Platform, &p.Provider,
			&p.Model, &p.Text, &p.CharCount, &p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning post row: %w", err)
		}
		posts = append(posts, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating post rows: %w", err)
	}

	return posts, nil
}
