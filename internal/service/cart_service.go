package service

import (
	"context"
	"time"

	"verduleria/internal/domain"
	"verduleria/internal/normalize"
	"verduleria/internal/repository"
)

// datetimeLayout matches the original record format: a plain local
// timestamp string, not RFC 3339.
const datetimeLayout = "2006-01-02 15:04:05"

// CartInput carries the validated fields of a cart creation request.
type CartInput struct {
	Fullname string
	Email    string
	Total    float64
}

// CartService defines the interface for shopping cart business logic.
// Carts are append-only records of completed checkouts.
type CartService interface {
	List(ctx context.Context) ([]*domain.ShoppingCart, error)
	Create(ctx context.Context, input CartInput) (*domain.ShoppingCart, error)
}

type cartService struct {
	carts repository.ShoppingCartRepository
	now   func() time.Time
}

// NewCartService creates a new instance of CartService
func NewCartService(carts repository.ShoppingCartRepository) CartService {
	return &cartService{
		carts: carts,
		now:   time.Now,
	}
}

func (s *cartService) List(ctx context.Context) ([]*domain.ShoppingCart, error) {
	return s.carts.List(ctx)
}

// Create stamps the server-side creation datetime, normalizes the full
// name and persists the record with a fresh id.
func (s *cartService) Create(ctx context.Context, input CartInput) (*domain.ShoppingCart, error) {
	cart := &domain.ShoppingCart{
		Datetime: s.now().Format(datetimeLayout),
		Fullname: normalize.Value(input.Fullname),
		Email:    input.Email,
		Total:    input.Total,
	}

	if err := s.carts.Create(ctx, cart); err != nil {
		return nil, err
	}

	return cart, nil
}
