package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mannyflugo/holiday-image-generation/internal/domain"
)

// ProductRepositoryPG implements domain.ProductRepository.
type ProductRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewProductRepository creates a new product repository backed by PostgreSQL.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepositoryPG {
	return &ProductRepositoryPG{pool: pool}
}

// Create inserts a new product record.
func (r *ProductRepositoryPG) Create(ctx context.Context, product *domain.Product) error {
	query := `
INSERT INTO products (id, user_id, image_id, name, description)
VALUES ($1, $2, $3, $4, $5);
`
	_, err := r.pool.Exec(ctx, query,
		product.ID,
		product.UserID,
		product.ImageID,
		product.Name,
		product.Description,
	)
	return err
}

// GetByID fetches a product by its identifier.
func (r *ProductRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `
SELECT id, user_id, image_id, name, description, created_at
FROM products
WHERE id = $1;
`
	row := r.pool.QueryRow(ctx, query, id)
	var product domain.Product
	if err := row.Scan(
		&product.ID,
		&product.UserID,
		&product.ImageID,
		&product.Name,
		&product.Description,
		&product.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// ListByUser returns all products belonging to the user.
func (r *ProductRepositoryPG) ListByUser(ctx context.Context, userID string) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, image_id, name, description, created_at
FROM products
WHERE user_id = $1
ORDER BY created_at ASC;
`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(&product.ID, &product.UserID, &product.ImageID, &product.Name, &product.Description, &product.CreatedAt); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

// DeleteOwned removes the product when it belongs to userID. Generations
// referencing the product keep their recorded ids; there is no cascade.
func (r *ProductRepositoryPG) DeleteOwned(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx, `
DELETE FROM products
WHERE id = $1 AND user_id = $2;
`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFoundOrUnauthorized
	}
	return nil
}
