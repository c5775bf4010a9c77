package repository

import (
	"context"
	"database/sql"
	"fmt"

	"verduleria/internal/domain"
)

// ShoppingCartRepository defines the interface for cart record access.
// Records are append-only; there is no update or delete.
type ShoppingCartRepository interface {
	Create(ctx context.Context, cart *domain.ShoppingCart) error
	List(ctx context.Context) ([]*domain.ShoppingCart, error)
}

type shoppingCartRepository struct {
	db *sql.DB
}

// NewShoppingCartRepository creates a new instance of ShoppingCartRepository
func NewShoppingCartRepository(db *sql.DB) ShoppingCartRepository {
	return &shoppingCartRepository{db: db}
}

// Create inserts a cart record; the id comes from the shopping_carts
// sequence and is written back into the struct.
func (r *shoppingCartRepository) Create(ctx context.Context, cart *domain.ShoppingCart) error {
	query := `
		INSERT INTO shopping_carts (datetime, fullname, email, total)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		cart.Datetime,
		cart.Fullname,
		cart.Email,
		cart.Total,
	).Scan(&cart.ID)

	if err != nil {
		return fmt.Errorf("failed to create shopping cart: %w", err)
	}

	return nil
}

// List returns every cart record, unfiltered.
func (r *shoppingCartRepository) List(ctx context.Context) ([]*domain.ShoppingCart, error) {
	query := `
		SELECT id, datetime, fullname, email, total
		FROM shopping_carts
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping carts: %w", err)
	}
	defer rows.Close()

	carts := []*domain.ShoppingCart{}
	for rows.Next() {
		cart := &domain.ShoppingCart{}
		err := rows.Scan(
			&cart.ID,
			&cart.Datetime,
			&cart.Fullname,
			&cart.Email,
			&cart.Total,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shopping cart: %w", err)
		}
		carts = append(carts, cart)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shopping carts: %w", err)
	}

	return carts, nil
}
