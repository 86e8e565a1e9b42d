package domain

import "time"

// Theme is a named prompt template for a holiday motif.
type Theme struct {
	ID          string
	Name        string
	Description string
	Prompt      string
	IsActive    bool
	CreatedAt   time.Time
}
