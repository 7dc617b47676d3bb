package post

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postforge/postforge/internal/loggy"
)

func newTestRepository(t *testing.T) (*SQLRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create mock database")
	t.Cleanup(func() { db.Close() })

	return NewSQLRepository(db, loggy.NewNoopLogger()), mock
}

func samplePost(id string, index int) *Post {
	return &Post{
		ID:        id,
		BatchID:   "batch_123456",
		Index:     index,
		Platform:  PlatformLinkedIn,
		Provider:  "openai",
		Model:     "gpt-4o",
		Text:      "Shipping beats perfection. Here's why we release weekly.",
		CharCount: 56,
		CreatedAt: time.Now().UTC(),
	}
}

func TestPostRepository(t *testing.T) {
	repo, mock := newTestRepository(t)
	ctx := context.Background()

	t.Run("SavePosts", func(t *testing.T) {
		posts := []*Post{samplePost("post_1", 1), samplePost("post_2", 2)}

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO posts").
			WithArgs(
				posts[0].ID, posts[0].BatchID, posts[0].Index, posts[0].Platform,
				posts[0].Provider, posts[0].Model, posts[0].Text, posts[0].CharCount,
				sqlmock.AnyArg(),
				posts[1].ID, posts[1].BatchID, posts[1].Index, posts[1].Platform,
				posts[1].Provider, posts[1].Model, posts[1].Text, posts[1].CharCount,
				sqlmock.AnyArg(),
			).
			WillReturnResult(sqlmock.NewResult(2, 2))
		mock.ExpectCommit()

		err := repo.SavePosts(ctx, posts)
		assert.NoError(t, err, "SavePosts should not return an error")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("SavePostsAssignsIDs", func(t *testing.T) {
		p := samplePost("", 1)
		p.CreatedAt = time.Time{}

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO posts").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		err := repo.SavePosts(ctx, []*Post{p})
		assert.NoError(t, err)
		assert.NotEmpty(t, p.ID, "SavePosts should assign an ID")
		assert.False(t, p.CreatedAt.IsZero(), "SavePosts should set CreatedAt")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("SavePostsEmpty", func(t *testing.T) {
		err := repo.SavePosts(ctx, nil)
		assert.NoError(t, err, "Saving no posts should be a no-op")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GetPost", func(t *testing.T) {
		p := samplePost("post_1", 1)

		rows := sqlmock.NewRows(postColumns).AddRow(
			p.ID, p.BatchID, p.Index, p.Platform, p.Provider,
			p.Model, p.Text, p.CharCount, p.CreatedAt,
		)
		mock.ExpectQuery("SELECT .+ FROM posts WHERE id = ?").
			WithArgs(p.ID).
			WillReturnRows(rows)

		got, err := repo.GetPost(ctx, p.ID)
		assert.NoError(t, err, "GetPost should not return an error")
		require.NotNil(t, got)
		assert.Equal(t, p.ID, got.ID)
		assert.Equal(t, p.Text, got.Text)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GetPostNotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT .+ FROM posts WHERE id = ?").
			WithArgs("post_missing").
			WillReturnError(sql.ErrNoRows)

		got, err := repo.GetPost(ctx, "post_missing")
		assert.Error(t, err, "GetPost should fail for an unknown ID")
		assert.Nil(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ListBatch", func(t *testing.T) {
		p1 := samplePost("post_1", 1)
		p2 := samplePost("post_2", 2)

		rows := sqlmock.NewRows(postColumns).
			AddRow(p1.ID, p1.BatchID, p1.Index, p1.Platform, p1.Provider,
				p1.Model, p1.Text, p1.CharCount, p1.CreatedAt).
			AddRow(p2.ID, p2.BatchID, p2.Index, p2.Platform, p2.Provider,
				p2.Model, p2.Text, p2.CharCount, p2.CreatedAt)
		mock.ExpectQuery("SELECT .+ FROM posts WHERE batch_id = .+ ORDER BY batch_index ASC").
			WithArgs(p1.BatchID).
			WillReturnRows(rows)

		got, err := repo.ListBatch(ctx, p1.BatchID)
		assert.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, 1, got[0].Index)
		assert.Equal(t, 2, got[1].Index)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ListRecentWithPlatform", func(t *testing.T) {
		p := samplePost("post_1", 1)

		rows := sqlmock.NewRows(postColumns).AddRow(
			p.ID, p.BatchID, p.Index, p.Platform, p.Provider,
			p.Model, p.Text, p.CharCount, p.CreatedAt,
		)
		mock.ExpectQuery("SELECT .+ FROM posts WHERE platform = .+ ORDER BY created_at DESC").
			WithArgs(PlatformLinkedIn).
			WillReturnRows(rows)

		got, err := repo.ListRecent(ctx, PlatformLinkedIn, 10)
		assert.NoError(t, err)
		assert.Len(t, got, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ListRecentAllPlatforms", func(t *testing.T) {
		mock.ExpectQuery("SELECT .+ FROM posts ORDER BY created_at DESC").
			WillReturnRows(sqlmock.NewRows(postColumns))

		got, err := repo.ListRecent(ctx, "", 10)
		assert.NoError(t, err)
		assert.Empty(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RecentTexts", func(t *testing.T) {
		p1 := samplePost("post_1", 1)
		p2 := samplePost("post_2", 2)
		p2.Text = ""

		rows := sqlmock.NewRows(postColumns).
			AddRow(p1.ID, p1.BatchID, p1.Index, p1.Platform, p1.Provider,
				p1.Model, p1.Text, p1.CharCount, p1.CreatedAt).
			AddRow(p2.ID, p2.BatchID, p2.Index, p2.Platform, p2.Provider,
				p2.Model, p2.Text, p2.CharCount, p2.CreatedAt)
		mock.ExpectQuery("SELECT .+ FROM posts WHERE platform = ?").
			WithArgs(PlatformLinkedIn).
			WillReturnRows(rows)

		texts, err := repo.RecentTexts(ctx, PlatformLinkedIn, 10)
		assert.NoError(t, err)
		assert.Equal(t, []string{p1.Text}, texts, "Empty texts should be dropped")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DeleteBatch", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM posts WHERE batch_id = ?").
			WithArgs("batch_123456").
			WillReturnResult(sqlmock.NewResult(0, 3))

		deleted, err := repo.DeleteBatch(ctx, "batch_123456")
		assert.NoError(t, err)
		assert.Equal(t, int64(3), deleted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
