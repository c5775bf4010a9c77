package service

import (
	"context"
	"errors"
	"io"

	"verduleria/internal/domain"
	"verduleria/internal/normalize"
	"verduleria/internal/repository"
	"verduleria/internal/storage"

	"go.uber.org/zap"
)

// ProductInput carries the already-coerced, validated fields of a create
// or update request. Coercion from loose wire payloads happens once in the
// transport layer; from here on everything is typed.
type ProductInput struct {
	Name          string
	Description   *string
	ImageFileName string
	Stock         int
	Price         float64
	IsPromotion   bool
}

// ImageStore is the slice of the storage layer the catalog needs: saving
// uploads and removing obsolete files.
type ImageStore interface {
	Save(r io.Reader, originalName, mimeType string) (*storage.FileInfo, error)
	Remove(fileName string) error
}

// CatalogService defines the interface for product catalog business logic
type CatalogService interface {
	List(ctx context.Context, search string) ([]*domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, input ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id int64, input ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id int64) (*domain.Product, error)
	DecrementStock(ctx context.Context, items []domain.DecrementItem) ([]*domain.Product, error)
	UploadImage(r io.Reader, originalName, mimeType string) (*storage.FileInfo, error)
}

type catalogService struct {
	products repository.ProductRepository
	images   ImageStore
	logger   *zap.Logger
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(
	products repository.ProductRepository,
	images ImageStore,
	logger *zap.Logger,
) CatalogService {
	return &catalogService{
		products: products,
		images:   images,
		logger:   logger,
	}
}

// List returns catalog entries sorted by name, optionally filtered by a
// case/accent-insensitive search term.
func (s *catalogService) List(ctx context.Context, search string) ([]*domain.Product, error) {
	return s.products.List(ctx, search)
}

// Get returns a single product by id.
func (s *catalogService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

// Create normalizes the name and inserts the product with a fresh id.
func (s *catalogService) Create(ctx context.Context, input ProductInput) (*domain.Product, error) {
	product := productFromInput(0, input)

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// Update replaces every mutable field of an existing product. When the
// target does not exist, the replacement image uploaded alongside the
// request is removed, since it will never be attached to anything. When
// the image reference changed, the previous file is removed.
func (s *catalogService) Update(ctx context.Context, id int64, input ProductInput) (*domain.Product, error) {
	existing, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			s.removeImage(input.ImageFileName)
		}
		return nil, err
	}

	product := productFromInput(id, input)
	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}

	if existing.ImageFileName != product.ImageFileName {
		s.removeImage(existing.ImageFileName)
	}

	return product, nil
}

// Delete removes the product and its image file.
func (s *catalogService) Delete(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return nil, err
	}

	s.removeImage(product.ImageFileName)

	return product, nil
}

// DecrementStock applies a checkout batch. The three failure classes
// (missing product, insufficient stock, everything else) surface unchanged
// from the repository.
func (s *catalogService) DecrementStock(ctx context.Context, items []domain.DecrementItem) ([]*domain.Product, error) {
	return s.products.DecrementStock(ctx, items)
}

// UploadImage stores an uploaded file and returns its metadata.
func (s *catalogService) UploadImage(r io.Reader, originalName, mimeType string) (*storage.FileInfo, error) {
	return s.images.Save(r, originalName, mimeType)
}

// removeImage is fire-and-forget: deletion is not transactional with the
// database write that triggered it, so a failure only gets logged and the
// orphaned file stays on disk.
func (s *catalogService) removeImage(fileName string) {
	if err := s.images.Remove(fileName); err != nil {
		s.logger.Warn("Failed to remove image file",
			zap.String("file", fileName),
			zap.Error(err),
		)
	}
}

func productFromInput(id int64, input ProductInput) *domain.Product {
	return &domain.Product{
		ID:            id,
		Name:          normalize.Value(input.Name),
		Description:   input.Description,
		ImageFileName: input.ImageFileName,
		Stock:         input.Stock,
		Price:         input.Price,
		IsPromotion:   input.IsPromotion,
	}
}
