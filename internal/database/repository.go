package database

import (
	"context"
	"errors"

	"github.com/bookforge/bookforge-api/internal/database/models"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrNotOwner      = errors.New("record owned by another user")
	ErrTerminalState = errors.New("record already in a terminal state")
)

// BookRepository handles book record persistence. Read and delete operations
// take the caller's identity and fail with ErrNotOwner when the record exists
// but belongs to someone else. MarkCompleted and MarkFailed are one-shot: a
// record that already reached completed or failed is never overwritten.
type BookRepository interface {
	CreateBook(ctx context.Context, book *models.Book) error
	GetBook(ctx context.Context, id, ownerID string) (*models.Book, error)
	ListBooksByOwner(ctx context.Context, ownerID string) ([]*models.Book, error)
	DeleteBook(ctx context.Context, id, ownerID string) error

	MarkBookCompleted(ctx context.Context, id, content, metadata string, wordCount int) error
	MarkBookFailed(ctx context.Context, id, errorMessage string) error
}
