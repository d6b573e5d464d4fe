package bunstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bookforge/bookforge-api/internal/database"
	"github.com/bookforge/bookforge-api/internal/database/models"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

type BunStore struct {
	db *bun.DB
}

func NewBunStore(db *sql.DB, dialect schema.Dialect) (*BunStore, error) {
	bunDB := bun.NewDB(db, dialect)

	store := &BunStore{db: bunDB}

	// Create tables if they don't exist
	ctx := context.Background()
	if _, err := bunDB.NewCreateTable().Model((*models.Book)(nil)).IfNotExists().Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to create books table: %w", err)
	}

	return store, nil
}

// BookRepository Implementation
func (s *BunStore) CreateBook(ctx context.Context, book *models.Book) error {
	if _, err := s.db.NewInsert().Model(book).Exec(ctx); err != nil {
		return err
	}
	return nil
}

func (s *BunStore) GetBook(ctx context.Context, id, ownerID string) (*models.Book, error) {
	book := new(models.Book)
	if err := s.db.NewSelect().Model(book).Where("id = ?", id).Scan(ctx); err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrNotFound
		}
		return nil, err
	}
	if book.OwnerID != ownerID {
		return nil, database.ErrNotOwner
	}
	return book, nil
}

func (s *BunStore) ListBooksByOwner(ctx context.Context, ownerID string) ([]*models.Book, error) {
	var books []*models.Book
	if err := s.db.NewSelect().Model(&books).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Scan(ctx); err != nil {
		return nil, err
	}
	return books, nil
}

func (s *BunStore) DeleteBook(ctx context.Context, id, ownerID string) error {
	// Ownership check precedes the delete so a foreign caller gets
	// ErrNotOwner rather than a silent no-op.
	if _, err := s.GetBook(ctx, id, ownerID); err != nil {
		return err
	}
	if _, err := s.db.NewDelete().Model((*models.Book)(nil)).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Exec(ctx); err != nil {
		return err
	}
	return nil
}

// MarkBookCompleted transitions a generating record to completed. The update
// is guarded on the current status so a record that already reached a
// terminal state is never overwritten.
func (s *BunStore) MarkBookCompleted(ctx context.Context, id, content, metadata string, wordCount int) error {
	res, err := s.db.NewUpdate().Model((*models.Book)(nil)).
		Set("status = ?", models.BookStatusCompleted).
		Set("content = ?", content).
		Set("metadata = ?", metadata).
		Set("word_count = ?", wordCount).
		Set("generation_end_time = ?", time.Now().UTC()).
		Set("updated_at = current_timestamp").
		Where("id = ? AND status = ?", id, models.BookStatusGenerating).
		Exec(ctx)
	if err != nil {
		return err
	}
	return s.checkTransition(ctx, res, id)
}

// MarkBookFailed transitions a generating record to failed, recording the
// user-facing error message. Content stays empty.
func (s *BunStore) MarkBookFailed(ctx context.Context, id, errorMessage string) error {
	res, err := s.db.NewUpdate().Model((*models.Book)(nil)).
		Set("status = ?", models.BookStatusFailed).
		Set("error_message = ?", errorMessage).
		Set("generation_end_time = ?", time.Now().UTC()).
		Set("updated_at = current_timestamp").
		Where("id = ? AND status = ?", id, models.BookStatusGenerating).
		Exec(ctx)
	if err != nil {
		return err
	}
	return s.checkTransition(ctx, res, id)
}

func (s *BunStore) checkTransition(ctx context.Context, res sql.Result, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		exists, err := s.db.NewSelect().Model((*models.Book)(nil)).Where("id = ?", id).Exists(ctx)
		if err != nil {
			return err
		}
		if !exists {
			return database.ErrNotFound
		}
		return database.ErrTerminalState
	}
	return nil
}
