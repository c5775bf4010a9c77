package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"verduleria/internal/domain"
	"verduleria/internal/normalize"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// InsufficientStockError reports the first decrement item whose requested
// amount exceeds the available stock. The whole batch is rolled back.
type InsufficientStockError struct {
	ProductID int64
	Requested int
	Stock     int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Stock)
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, search string) ([]*domain.Product, error)
	DecrementStock(ctx context.Context, items []domain.DecrementItem) ([]*domain.Product, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = "id, name, description, image_file_name, stock, price, is_promotion"

func scanProduct(row interface{ Scan(...any) error }) (*domain.Product, error) {
	product := &domain.Product{}
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.ImageFileName,
		&product.Stock,
		&product.Price,
		&product.IsPromotion,
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}

// Create inserts a new product; the id comes from the products sequence and
// is written back into the struct.
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (name, description, image_file_name, stock, price, is_promotion)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		product.Name,
		product.Description,
		product.ImageFileName,
		product.Stock,
		product.Price,
		product.IsPromotion,
	).Scan(&product.ID)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update replaces every mutable field of an existing product.
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, image_file_name = $4,
		    stock = $5, price = $6, is_promotion = $7
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Description,
		product.ImageFileName,
		product.Stock,
		product.Price,
		product.IsPromotion,
	)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product row.
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID
func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// List retrieves products sorted by name. A non-empty search term matches
// either the exact id or a substring of the normalized name; names are
// stored normalized, so normalizing the term makes the match
// case/accent-insensitive.
func (r *productRepository) List(ctx context.Context, search string) ([]*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products ORDER BY name ASC`, productColumns)
	args := []interface{}{}

	if strings.TrimSpace(search) != "" {
		// A term that does not parse as an integer can never match an id.
		searchID, err := strconv.ParseInt(strings.TrimSpace(search), 10, 64)
		if err != nil {
			searchID = -1
		}

		query = fmt.Sprintf(`
			SELECT %s FROM products
			WHERE id = $1 OR name ILIKE $2
			ORDER BY name ASC
		`, productColumns)
		args = append(args, searchID, "%"+normalize.Value(search)+"%")
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// DecrementStock applies a checkout batch atomically: every item's stock is
// decremented, or none is. Items are evaluated strictly in input order and
// the scan short-circuits on the first failing item; the batch is not
// validated as a whole before writes are staged. Row locks (SELECT ... FOR
// UPDATE) keep concurrent batches from driving stock negative.
func (r *productRepository) DecrementStock(ctx context.Context, items []domain.DecrementItem) ([]*domain.Product, error) {
	updated := make([]*domain.Product, 0, len(items))
	if len(items) == 0 {
		return updated, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin inventory transaction: %w", err)
	}
	defer tx.Rollback()

	lockQuery := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1 FOR UPDATE`, productColumns)

	for _, item := range items {
		product, err := scanProduct(tx.QueryRowContext(ctx, lockQuery, item.ID))
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, ErrProductNotFound
			}
			return nil, fmt.Errorf("failed to lock product %d: %w", item.ID, err)
		}

		if product.Stock < item.Amount {
			return nil, &InsufficientStockError{
				ProductID: product.ID,
				Requested: item.Amount,
				Stock:     product.Stock,
			}
		}

		product.Stock -= item.Amount
		if _, err := tx.ExecContext(ctx,
			`UPDATE products SET stock = $2 WHERE id = $1`,
			product.ID, product.Stock,
		); err != nil {
			return nil, fmt.Errorf("failed to decrement stock for product %d: %w", product.ID, err)
		}

		updated = append(updated, product)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit inventory transaction: %w", err)
	}

	return updated, nil
}
