package domain

import "context"

// ProductRepository defines persistence for product photos.
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	ListByUser(ctx context.Context, userID string) ([]Product, error)
	// DeleteOwned removes the product only when it belongs to userID and
	// returns ErrNotFoundOrUnauthorized otherwise.
	DeleteOwned(ctx context.Context, userID, id string) error
}

// ThemeRepository defines persistence for the theme catalog.
type ThemeRepository interface {
	ListActive(ctx context.Context) ([]Theme, error)
	GetActiveByName(ctx context.Context, name string) (*Theme, error)
	Count(ctx context.Context) (int, error)
	InsertAll(ctx context.Context, themes []Theme) error
}

// GenerationRepository defines persistence for generation jobs.
type GenerationRepository interface {
	Create(ctx context.Context, generation *Generation) error
	GetByID(ctx context.Context, id string) (*Generation, error)
	ListByUser(ctx context.Context, userID string) ([]Generation, error)
	// ClaimNextPending atomically advances the oldest pending generation to
	// processing and returns its id, or ErrNotFound when the queue is empty.
	ClaimNextPending(ctx context.Context) (string, error)
	MarkProcessing(ctx context.Context, id string) error
	MarkCompleted(ctx context.Context, id, resultImageID string) error
	MarkFailed(ctx context.Context, id, errorMessage string) error
}
