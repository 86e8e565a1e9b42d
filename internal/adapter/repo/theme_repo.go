package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mannyflugo/holiday-image-generation/internal/domain"
)

// ThemeRepositoryPG implements domain.ThemeRepository.
type ThemeRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewThemeRepository creates a new theme repository backed by PostgreSQL.
func NewThemeRepository(pool *pgxpool.Pool) *ThemeRepositoryPG {
	return &ThemeRepositoryPG{pool: pool}
}

// ListActive returns all active themes.
func (r *ThemeRepositoryPG) ListActive(ctx context.Context) ([]domain.Theme, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, name, description, prompt, is_active, created_at
FROM themes
WHERE is_active = TRUE;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var themes []domain.Theme
	for rows.Next() {
		var theme domain.Theme
		if err := rows.Scan(&theme.ID, &theme.Name, &theme.Description, &theme.Prompt, &theme.IsActive, &theme.CreatedAt); err != nil {
			return nil, err
		}
		themes = append(themes, theme)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return themes, nil
}

// GetActiveByName returns the first active theme with the given name.
func (r *ThemeRepositoryPG) GetActiveByName(ctx context.Context, name string) (*domain.Theme, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, name, description, prompt, is_active, created_at
FROM themes
WHERE name = $1 AND is_active = TRUE
LIMIT 1;
`, name)
	var theme domain.Theme
	if err := row.Scan(&theme.ID, &theme.Name, &theme.Description, &theme.Prompt, &theme.IsActive, &theme.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrThemeNotFound
		}
		return nil, err
	}
	return &theme, nil
}

// Count reports the number of theme rows, active or not.
func (r *ThemeRepositoryPG) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM themes;`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// InsertAll persists the given themes.
func (r *ThemeRepositoryPG) InsertAll(ctx context.Context, themes []domain.Theme) error {
	query := `
INSERT INTO themes (id, name, description, prompt, is_active)
VALUES ($1, $2, $3, $4, $5);
`
	for _, theme := range themes {
		if _, err := r.pool.Exec(ctx, query, theme.ID, theme.Name, theme.Description, theme.Prompt, theme.IsActive); err != nil {
			return err
		}
	}
	return nil
}
