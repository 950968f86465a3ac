package product

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-api/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	const q = `
SELECT id, name, COALESCE(name_th, ''), price_cents, COALESCE(image, ''), colors, created_at
FROM products
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.NameTH, &p.PriceCents, &p.Image, &p.Colors, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	const q = `
SELECT id, name, COALESCE(name_th, ''), price_cents, COALESCE(image, ''), colors, created_at
FROM products
WHERE id = $1
`
	var p domain.Product
	err := r.pool.QueryRow(ctx, q, id).Scan(&p.ID, &p.Name, &p.NameTH, &p.PriceCents, &p.Image, &p.Colors, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%d error=%v", id, err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (id, name, name_th, price_cents, image, colors)
VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, ''), $6)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    name_th = EXCLUDED.name_th,
    price_cents = EXCLUDED.price_cents,
    image = EXCLUDED.image,
    colors = EXCLUDED.colors
RETURNING id, created_at
`
	res := product
	err := r.pool.QueryRow(ctx, q,
		product.ID,
		product.Name,
		product.NameTH,
		product.PriceCents,
		product.Image,
		product.Colors,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		r.logger.Printf("product repo: upsert id=%d error=%v", product.ID, err)
		return nil, err
	}
	r.logger.Printf("product repo: upserted id=%d name=%q price_cents=%d", res.ID, res.Name, res.PriceCents)
	return &res, nil
}
