package generate

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bookforge/bookforge-api/internal/database/memstore"
	"github.com/bookforge/bookforge-api/internal/database/models"
	"github.com/bookforge/bookforge-api/internal/domain/repository"
)

type mockClient struct {
	name    string
	content string
	err     error

	mu      sync.Mutex
	prompts []string
}

func (m *mockClient) GenerateBook(ctx context.Context, prompt string) (*repository.GenerationResult, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return &repository.GenerationResult{
		Content:     m.content,
		Model:       m.name,
		TotalTokens: 42,
	}, nil
}

func (m *mockClient) Name() string { return m.name }

func newTestService(client repository.LLMClient) (*Service, *memstore.MemStore) {
	store := memstore.New()
	runner := NewRunner(2, 5*time.Second)
	return NewService(store, client, runner), store
}

func TestSubmitCompletesBook(t *testing.T) {
	client := &mockClient{name: "mock", content: "# Intro to Go\nSome **function** text."}
	svc, store := newTestService(client)

	book, err := svc.Submit(context.Background(), validSpec(), "alice")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if book.Status != models.BookStatusGenerating {
		t.Errorf("expected generating on submit, got %s", book.Status)
	}
	if book.ID == "" {
		t.Error("expected a record id")
	}

	svc.Wait()

	got, err := store.GetBook(context.Background(), book.ID, "alice")
	if err != nil {
		t.Fatalf("GetBook failed: %v", err)
	}
	if got.Status != models.BookStatusCompleted {
		t.Errorf("expected completed, got %s", got.Status)
	}
	if got.Content == "" {
		t.Error("completed record must have content")
	}
	if got.WordCount == 0 {
		t.Error("expected a word count")
	}
	if !strings.Contains(got.Metadata, `"model":"mock"`) {
		t.Errorf("expected usage metadata, got %q", got.Metadata)
	}
	if got.GenerationEndTime.IsZero() {
		t.Error("expected generation end time")
	}
}

func TestSubmitPromptEmbedsSpec(t *testing.T) {
	client := &mockClient{name: "mock", content: "text"}
	svc, _ := newTestService(client)

	_, err := svc.Submit(context.Background(), validSpec(), "alice")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	svc.Wait()

	if len(client.prompts) != 1 {
		t.Fatalf("expected exactly one provider call, got %d", len(client.prompts))
	}
	if !strings.Contains(client.prompts[0], "1. Syntax") || !strings.Contains(client.prompts[0], "2. Goroutines") {
		t.Errorf("prompt missing topics:\n%s", client.prompts[0])
	}
}

func TestSubmitProviderFailureMarksFailed(t *testing.T) {
	client := &mockClient{name: "mock", err: repository.ErrQuotaExhausted}
	svc, store := newTestService(client)

	book, err := svc.Submit(context.Background(), validSpec(), "alice")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	svc.Wait()

	got, err := store.GetBook(context.Background(), book.ID, "alice")
	if err != nil {
		t.Fatalf("GetBook failed: %v", err)
	}
	if got.Status != models.BookStatusFailed {
		t.Errorf("expected failed, got %s", got.Status)
	}
	if got.Content != "" {
		t.Errorf("failed record must keep empty content, got %q", got.Content)
	}
	if got.ErrorMessage != repository.UserMessage(repository.ErrQuotaExhausted) {
		t.Errorf("expected quota message, got %q", got.ErrorMessage)
	}
}

func TestConcurrentSubmitsAreIndependent(t *testing.T) {
	client := &mockClient{name: "mock", content: "text"}
	svc, store := newTestService(client)

	b1, err := svc.Submit(context.Background(), validSpec(), "alice")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	b2, err := svc.Submit(context.Background(), validSpec(), "alice")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if b1.ID == b2.ID {
		t.Error("concurrent submissions must create independent records")
	}

	svc.Wait()

	books, err := store.ListBooksByOwner(context.Background(), "alice")
	if err != nil {
		t.Fatalf("ListBooksByOwner failed: %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("expected 2 records, got %d", len(books))
	}
	for _, b := range books {
		if b.Status != models.BookStatusCompleted {
			t.Errorf("expected completed, got %s for %s", b.Status, b.ID)
		}
	}
}

func TestSubmitTimestampsMatch(t *testing.T) {
	client := &mockClient{name: "mock", content: "Body"}
	svc, _ := newTestService(client)

	book, err := svc.Submit(context.Background(), validSpec(), "alice")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	svc.Wait()

	if !book.GenerationStartTime.Equal(book.CreatedAt) {
		t.Errorf("submission timestamps differ: start %v, created %v",
			book.GenerationStartTime, book.CreatedAt)
	}
}

func TestPageEstimate(t *testing.T) {
	cases := map[int]int{0: 0, 1: 1, 250: 1, 251: 2, 5000: 20}
	for words, pages := range cases {
		if got := PageEstimate(words); got != pages {
			t.Errorf("PageEstimate(%d) = %d, want %d", words, got, pages)
		}
	}
}
