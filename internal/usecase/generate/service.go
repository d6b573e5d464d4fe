package generate

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/bookforge/bookforge-api/internal/database"
	"github.com/bookforge/bookforge-api/internal/database/models"
	"github.com/bookforge/bookforge-api/internal/domain/repository"
	"github.com/google/uuid"
)

// wordsPerPage is the rough conversion used for the page estimate reported
// in book summaries.
const wordsPerPage = 250

// Service owns the book generation pipeline: it creates the record, builds
// the prompt, fires the background job and settles the record into its
// terminal state.
type Service struct {
	repo   database.BookRepository
	client repository.LLMClient
	runner *Runner
}

func NewService(repo database.BookRepository, client repository.LLMClient, runner *Runner) *Service {
	return &Service{
		repo:   repo,
		client: client,
		runner: runner,
	}
}

// Submit accepts a validated BookSpec, persists a generating record owned by
// ownerID and schedules the generation job. It returns as soon as the record
// exists; callers poll the record for the outcome.
func (s *Service) Submit(ctx context.Context, spec BookSpec, ownerID string) (*models.Book, error) {
	specJSON, err := json.Marshal(spec)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	book := &models.Book{
		ID:                  uuid.NewString(),
		OwnerID:             ownerID,
		Status:              models.BookStatusGenerating,
		Title:               spec.Title,
		Author:              spec.Author,
		Language:            spec.Language,
		Level:               string(spec.Level),
		Tone:                string(spec.Tone),
		NumberOfPages:       spec.NumberOfPages,
		SpecJSON:            string(specJSON),
		GenerationStartTime: now,
		CreatedAt:           now,
	}

	if err := s.repo.CreateBook(ctx, book); err != nil {
		return nil, err
	}

	s.runner.Go(book.ID, func(jobCtx context.Context) {
		s.generate(jobCtx, book.ID, spec)
	})

	return book, nil
}

// generate runs the single blocking provider call and settles the record.
// The record transitions exactly once; a failure after the terminal write is
// only logged.
func (s *Service) generate(ctx context.Context, bookID string, spec BookSpec) {
	prompt := BuildPrompt(spec)

	result, err := s.client.GenerateBook(ctx, prompt)
	if err != nil {
		log.Printf("[Generate] Generation failed for book %s: %v", bookID, err)
		if markErr := s.repo.MarkBookFailed(context.Background(), bookID, repository.UserMessage(err)); markErr != nil {
			log.Printf("[Generate] Failed to mark book %s failed: %v", bookID, markErr)
		}
		return
	}

	metadata, _ := json.Marshal(map[string]any{
		"model":        result.Model,
		"promptTokens": result.PromptTokens,
		"outputTokens": result.OutputTokens,
		"totalTokens":  result.TotalTokens,
	})
	wordCount := len(strings.Fields(result.Content))

	if err := s.repo.MarkBookCompleted(context.Background(), bookID, result.Content, string(metadata), wordCount); err != nil {
		log.Printf("[Generate] Failed to mark book %s completed: %v", bookID, err)
		return
	}
	log.Printf("[Generate] Book %s completed (%d words).", bookID, wordCount)
}

// Wait blocks until all in-flight generation jobs are done.
func (s *Service) Wait() {
	s.runner.Wait()
}

// PageEstimate converts a word count to the page figure shown in summaries.
func PageEstimate(wordCount int) int {
	if wordCount == 0 {
		return 0
	}
	return (wordCount + wordsPerPage - 1) / wordsPerPage
}
