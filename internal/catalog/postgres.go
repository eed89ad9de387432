package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // postgres driver
)

// ConnectPostgres opens and verifies a PostgreSQL connection.
func ConnectPostgres(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// PostgresRepository backs the product catalog with PostgreSQL.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the catalog table if it does not exist.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS products (
			id               TEXT PRIMARY KEY,
			name             TEXT NOT NULL,
			description      TEXT NOT NULL DEFAULT '',
			brand            TEXT NOT NULL DEFAULT '',
			category         TEXT NOT NULL,
			subcategory      TEXT NOT NULL DEFAULT '',
			original_price   INTEGER NOT NULL,
			discounted_price INTEGER NOT NULL,
			image_url        TEXT NOT NULL DEFAULT '',
			stock            INTEGER NOT NULL DEFAULT 0,
			rating_average   DOUBLE PRECISION NOT NULL DEFAULT 0,
			rating_count     INTEGER NOT NULL DEFAULT 0,
			created_at       TIMESTAMPTZ NOT NULL,
			updated_at       TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_products_category ON products (category);
	`)
	if err != nil {
		return fmt.Errorf("create products schema: %w", err)
	}
	return nil
}

const productColumns = `id, name, description, brand, category, subcategory,
	original_price, discounted_price, image_url, stock,
	rating_average, rating_count, created_at, updated_at`

// Upsert inserts or replaces a product.
func (r *PostgresRepository) Upsert(ctx context.Context, p *Product) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			brand = EXCLUDED.brand,
			category = EXCLUDED.category,
			subcategory = EXCLUDED.subcategory,
			original_price = EXCLUDED.original_price,
			discounted_price = EXCLUDED.discounted_price,
			image_url = EXCLUDED.image_url,
			stock = EXCLUDED.stock,
			rating_average = EXCLUDED.rating_average,
			rating_count = EXCLUDED.rating_count,
			updated_at = EXCLUDED.updated_at
	`, p.ID, p.Name, p.Description, p.Brand, p.Category, p.Subcategory,
		p.OriginalPrice, p.DiscountedPrice, p.ImageURL, p.Stock,
		p.RatingAverage, p.RatingCount, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert product %s: %w", p.ID, err)
	}
	return nil
}

// GetByID returns a single product.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Product, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+productColumns+` FROM products WHERE id = $1
	`, id)

	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	return p, nil
}

// List returns products, optionally filtered by category, newest first.
func (r *PostgresRepository) List(ctx context.Context, category string) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	args := []any{}
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Brand, &p.Category,
		&p.Subcategory, &p.OriginalPrice, &p.DiscountedPrice, &p.ImageURL,
		&p.Stock, &p.RatingAverage, &p.RatingCount, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
