package models

import (
	"time"

	"github.com/uptrace/bun"
)

// BookStatus represents the lifecycle state of a book record.
// A record is created as Generating and transitions exactly once
// to Completed or Failed.
type BookStatus string

const (
	BookStatusGenerating BookStatus = "generating"
	BookStatusCompleted  BookStatus = "completed"
	BookStatusFailed     BookStatus = "failed"
)

// Book represents a persisted generation request plus its outcome.
// SpecJSON holds the full submitted specification; the denormalized
// columns exist for listing without unmarshalling every spec.
type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID      string     `bun:",pk"`
	OwnerID string     `bun:"owner_id,notnull"`
	Status  BookStatus `bun:",notnull"`

	Title         string `bun:",notnull"`
	Author        string `bun:",notnull"`
	Language      string `bun:",notnull"`
	Level         string `bun:",notnull"`
	Tone          string `bun:",notnull"`
	NumberOfPages int    `bun:"number_of_pages,notnull"`

	SpecJSON     string `bun:"spec_json,notnull"`
	Content      string `bun:",nullzero"`
	ErrorMessage string `bun:"error_message,nullzero"`
	Metadata     string `bun:",nullzero"` // JSON blob with provider usage data
	WordCount    int    `bun:"word_count,nullzero"`

	GenerationStartTime time.Time `bun:"generation_start_time,nullzero,notnull"`
	GenerationEndTime   time.Time `bun:"generation_end_time,nullzero"`
	CreatedAt           time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt           time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

// Terminal reports whether the record has reached a final state.
func (b *Book) Terminal() bool {
	return b.Status == BookStatusCompleted || b.Status == BookStatusFailed
}
