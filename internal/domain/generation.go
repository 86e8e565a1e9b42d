package domain

import "time"

// GenerationStatus enumerates generation lifecycle states.
type GenerationStatus string

const (
	GenerationStatusPending    GenerationStatus = "pending"
	GenerationStatusProcessing GenerationStatus = "processing"
	GenerationStatusCompleted  GenerationStatus = "completed"
	GenerationStatusFailed     GenerationStatus = "failed"
)

// IsTerminal reports whether no further status transition may occur.
func (s GenerationStatus) IsTerminal() bool {
	return s == GenerationStatusCompleted || s == GenerationStatusFailed
}

// Generation is one requested composite-image job. It is created pending by
// the API and mutated only by the worker afterwards.
type Generation struct {
	ID            string
	UserID        string
	ProductIDs    []string
	Theme         string
	Style         string
	Prompt        string
	Status        GenerationStatus
	ResultImageID string
	ErrorMessage  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
