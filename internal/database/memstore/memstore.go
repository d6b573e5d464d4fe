package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bookforge/bookforge-api/internal/database"
	"github.com/bookforge/bookforge-api/internal/database/models"
)

// MemStore is an in-memory BookRepository used by tests and by the SUT
// harness when no SQLite file is wanted. It honours the same ownership and
// terminal-transition contract as the bun-backed store.
type MemStore struct {
	mu    sync.RWMutex
	books map[string]*models.Book
}

func New() *MemStore {
	return &MemStore{books: make(map[string]*models.Book)}
}

func (m *MemStore) CreateBook(ctx context.Context, book *models.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *book
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	m.books[cp.ID] = &cp
	return nil
}

func (m *MemStore) GetBook(ctx context.Context, id, ownerID string) (*models.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	book, ok := m.books[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	if book.OwnerID != ownerID {
		return nil, database.ErrNotOwner
	}
	cp := *book
	return &cp, nil
}

func (m *MemStore) ListBooksByOwner(ctx context.Context, ownerID string) ([]*models.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var books []*models.Book
	for _, b := range m.books {
		if b.OwnerID == ownerID {
			cp := *b
			books = append(books, &cp)
		}
	}
	sort.Slice(books, func(i, j int) bool {
		return books[i].CreatedAt.After(books[j].CreatedAt)
	})
	return books, nil
}

func (m *MemStore) DeleteBook(ctx context.Context, id, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	book, ok := m.books[id]
	if !ok {
		return database.ErrNotFound
	}
	if book.OwnerID != ownerID {
		return database.ErrNotOwner
	}
	delete(m.books, id)
	return nil
}

func (m *MemStore) MarkBookCompleted(ctx context.Context, id, content, metadata string, wordCount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	book, ok := m.books[id]
	if !ok {
		return database.ErrNotFound
	}
	if book.Terminal() {
		return database.ErrTerminalState
	}
	book.Status = models.BookStatusCompleted
	book.Content = content
	book.Metadata = metadata
	book.WordCount = wordCount
	book.GenerationEndTime = time.Now().UTC()
	book.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MemStore) MarkBookFailed(ctx context.Context, id, errorMessage string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	book, ok := m.books[id]
	if !ok {
		return database.ErrNotFound
	}
	if book.Terminal() {
		return database.ErrTerminalState
	}
	book.Status = models.BookStatusFailed
	book.ErrorMessage = errorMessage
	book.GenerationEndTime = time.Now().UTC()
	book.UpdatedAt = time.Now().UTC()
	return nil
}
