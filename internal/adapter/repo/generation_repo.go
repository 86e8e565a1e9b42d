package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mannyflugo/holiday-image-generation/internal/domain"
)

// GenerationRepositoryPG implements domain.GenerationRepository.
type GenerationRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewGenerationRepository creates a new generation repository backed by PostgreSQL.
func NewGenerationRepository(pool *pgxpool.Pool) *GenerationRepositoryPG {
	return &GenerationRepositoryPG{pool: pool}
}

// Create inserts a new generation record.
func (r *GenerationRepositoryPG) Create(ctx context.Context, generation *domain.Generation) error {
	query := `
INSERT INTO generations (id, user_id, product_ids, theme, style, prompt, status)
VALUES ($1, $2, $3, $4, $5, $6, $7);
`
	_, err := r.pool.Exec(ctx, query,
		generation.ID,
		generation.UserID,
		generation.ProductIDs,
		generation.Theme,
		generation.Style,
		generation.Prompt,
		generation.Status,
	)
	return err
}

// GetByID fetches a generation by its identifier.
func (r *GenerationRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Generation, error) {
	query := `
SELECT id, user_id, product_ids, theme, style, prompt, status, result_image_id, error_message, created_at, updated_at
FROM generations
WHERE id = $1;
`
	row := r.pool.QueryRow(ctx, query, id)
	generation, err := scanGeneration(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGenerationNotFound
		}
		return nil, err
	}
	return generation, nil
}

// ListByUser returns all generations for the user, newest first.
func (r *GenerationRepositoryPG) ListByUser(ctx context.Context, userID string) ([]domain.Generation, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, product_ids, theme, style, prompt, status, result_image_id, error_message, created_at, updated_at
FROM generations
WHERE user_id = $1
ORDER BY created_at DESC;
`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var generations []domain.Generation
	for rows.Next() {
		generation, err := scanGeneration(rows)
		if err != nil {
			return nil, err
		}
		generations = append(generations, *generation)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return generations, nil
}

// ClaimNextPending advances the oldest pending generation to processing and
// returns its id. Concurrent workers skip rows another worker holds.
func (r *GenerationRepositoryPG) ClaimNextPending(ctx context.Context) (string, error) {
	query := `
WITH next_generation AS (
    SELECT id
    FROM generations
    WHERE status = 'pending'
    ORDER BY created_at ASC
    FOR UPDATE SKIP LOCKED
    LIMIT 1
)
UPDATE generations
SET status = 'processing', updated_at = NOW()
WHERE id IN (SELECT id FROM next_generation)
RETURNING id;
`
	var id string
	if err := r.pool.QueryRow(ctx, query).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return id, nil
}

// MarkProcessing sets the generation status to processing.
func (r *GenerationRepositoryPG) MarkProcessing(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `
UPDATE generations
SET status = 'processing', updated_at = NOW()
WHERE id = $1;
`, id)
	return err
}

// MarkCompleted records the result reference and sets the terminal
// completed status.
func (r *GenerationRepositoryPG) MarkCompleted(ctx context.Context, id, resultImageID string) error {
	_, err := r.pool.Exec(ctx, `
UPDATE generations
SET status = 'completed', result_image_id = $2, updated_at = NOW()
WHERE id = $1;
`, id, resultImageID)
	return err
}

// MarkFailed records the failure message and sets the terminal failed status.
func (r *GenerationRepositoryPG) MarkFailed(ctx context.Context, id, errorMessage string) error {
	_, err := r.pool.Exec(ctx, `
UPDATE generations
SET status = 'failed', error_message = $2, updated_at = NOW()
WHERE id = $1;
`, id, errorMessage)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGeneration(row rowScanner) (*domain.Generation, error) {
	var generation domain.Generation
	if err := row.Scan(
		&generation.ID,
		&generation.UserID,
		&generation.ProductIDs,
		&generation.Theme,
		&generation.Style,
		&generation.Prompt,
		&generation.Status,
		&generation.ResultImageID,
		&generation.ErrorMessage,
		&generation.CreatedAt,
		&generation.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &generation, nil
}
