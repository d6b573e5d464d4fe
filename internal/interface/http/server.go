package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bookforge/bookforge-api/internal/database"
	"github.com/bookforge/bookforge-api/internal/database/models"
	"github.com/bookforge/bookforge-api/internal/export"
	"github.com/bookforge/bookforge-api/internal/markup"
	"github.com/bookforge/bookforge-api/internal/usecase/generate"
)

// identityHeader carries the mocked caller identity. There is no session or
// token machinery here; identity stays request-scoped and is passed into
// every repository call.
const identityHeader = "X-User-ID"

type contextKey string

const ownerKey contextKey = "owner"

// Server holds the dependencies for the HTTP API server
type Server struct {
	generator *generate.Service
	repo      database.BookRepository
}

// NewServer initializes a new API server with the required dependencies
func NewServer(gen *generate.Service, repo database.BookRepository) *Server {
	return &Server{
		generator: gen,
		repo:      repo,
	}
}

// RegisterRoutes registers all API endpoints on a chi router.
func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api/v1/books", func(r chi.Router) {
		r.Use(requireIdentity)
		r.Post("/", s.handleCreateBook)
		r.Get("/", s.handleListBooks)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetBook)
			r.Post("/download", s.handleDownloadBook)
			r.Delete("/", s.handleDeleteBook)
		})
	})

	return r
}

// requireIdentity lifts the caller id off the request into the context.
func requireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner := r.Header.Get(identityHeader)
		if owner == "" {
			writeError(w, http.StatusUnauthorized, "Missing "+identityHeader+" header")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ownerKey, owner)))
	})
}

func ownerID(r *http.Request) string {
	owner, _ := r.Context().Value(ownerKey).(string)
	return owner
}

func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	var spec generate.BookSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	spec.Normalize()
	if err := spec.Validate(); err != nil {
		var verr *generate.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error":   "Validation failed",
				"details": verr.Message,
				"field":   verr.Field,
			})
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if spec.Format != "" {
		if _, err := export.ParseFormat(spec.Format); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Unsupported format %q", spec.Format))
			return
		}
	}

	book, err := s.generator.Submit(r.Context(), spec, ownerID(r))
	if err != nil {
		log.Printf("[Server] Failed to accept generation request: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to start book generation")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"bookId": book.ID,
		"status": string(book.Status),
	})
}

func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.repo.ListBooksByOwner(r.Context(), ownerID(r))
	if err != nil {
		log.Printf("[Server] Failed to list books: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch books")
		return
	}

	summaries := make([]bookSummary, 0, len(books))
	for _, b := range books {
		summaries = append(summaries, summarize(b))
	}
	writeJSON(w, http.StatusOK, map[string]any{"books": summaries})
}

func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	book, err := s.repo.GetBook(r.Context(), chi.URLParam(r, "id"), ownerID(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"book":    summarize(book),
		"content": book.Content,
	})
}

type downloadRequest struct {
	Format string `json:"format"`
}

func (s *Server) handleDownloadBook(w http.ResponseWriter, r *http.Request) {
	var req downloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	format, err := export.ParseFormat(req.Format)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unsupported format %q", req.Format))
		return
	}

	book, err := s.repo.GetBook(r.Context(), chi.URLParam(r, "id"), ownerID(r))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	// Downloads are only permitted once generation has completed; a partial
	// or failed record never leaves the store.
	if book.Status != models.BookStatusCompleted {
		writeError(w, http.StatusConflict, fmt.Sprintf("Book is not ready for download (status: %s)", book.Status))
		return
	}

	doc := markup.Transform(book.Content)
	res, err := export.Export(format, doc, export.Meta{
		Title:         book.Title,
		Author:        book.Author,
		Language:      book.Language,
		Level:         book.Level,
		NumberOfPages: book.NumberOfPages,
		CreatedAt:     book.CreatedAt,
	})
	if err != nil {
		log.Printf("[Server] Export failed for book %s: %v", book.ID, err)
		writeError(w, http.StatusInternalServerError, "Failed to export book")
		return
	}

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(res.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Data)
}

func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteBook(r.Context(), chi.URLParam(r, "id"), ownerID(r)); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Book deleted successfully"})
}

// bookSummary is the list/detail projection of a record; raw content is
// returned only by the detail and download endpoints.
type bookSummary struct {
	ID                  string     `json:"id"`
	Title               string     `json:"title"`
	Author              string     `json:"author"`
	Language            string     `json:"language"`
	Level               string     `json:"level"`
	Tone                string     `json:"tone"`
	Status              string     `json:"status"`
	NumberOfPages       int        `json:"numberOfPages"`
	WordCount           int        `json:"wordCount"`
	PageEstimate        int        `json:"pageEstimate"`
	Error               string     `json:"error,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	GenerationStartTime time.Time  `json:"generationStartTime"`
	GenerationEndTime   *time.Time `json:"generationEndTime,omitempty"`
}

func summarize(b *models.Book) bookSummary {
	s := bookSummary{
		ID:                  b.ID,
		Title:               b.Title,
		Author:              b.Author,
		Language:            b.Language,
		Level:               b.Level,
		Tone:                b.Tone,
		Status:              string(b.Status),
		NumberOfPages:       b.NumberOfPages,
		WordCount:           b.WordCount,
		PageEstimate:        generate.PageEstimate(b.WordCount),
		Error:               b.ErrorMessage,
		CreatedAt:           b.CreatedAt,
		GenerationStartTime: b.GenerationStartTime,
	}
	if !b.GenerationEndTime.IsZero() {
		end := b.GenerationEndTime
		s.GenerationEndTime = &end
	}
	return s
}

func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		writeError(w, http.StatusNotFound, "Book not found")
	case errors.Is(err, database.ErrNotOwner):
		writeError(w, http.StatusForbidden, "Access denied")
	default:
		log.Printf("[Server] Store error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[Server] Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
