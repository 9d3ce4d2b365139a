package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dealer-kart/internal/cache"
	"dealer-kart/internal/model"
	"dealer-kart/internal/realtime"
	"dealer-kart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	cache       cache.ProductCache
	publisher   realtime.Publisher
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	productRepo repository.ProductRepository,
	productCache cache.ProductCache,
	publisher realtime.Publisher,
	logger zerolog.Logger,
) ProductService {
	return &productService{
		productRepo: productRepo,
		cache:       productCache,
		publisher:   publisher,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// List retrieves active products with pagination, reading through the catalogue cache.
func (s *productService) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	filter.Limit, filter.Offset = page(filter.Limit, filter.Offset)
	filter.Category = strings.TrimSpace(filter.Category)
	filter.Search = strings.TrimSpace(filter.Search)

	if products, ok := s.cache.GetList(ctx, filter); ok {
		s.logger.Debug().Int("count", len(products)).Msg("catalogue served from cache")
		return products, nil
	}

	products, err := s.productRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).
			Int("limit", filter.Limit).
			Int("offset", filter.Offset).
			Msg("failed to list products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	s.cache.SetList(ctx, filter, products)

	s.logger.Debug().
		Int("count", len(products)).
		Int("limit", filter.Limit).
		Int("offset", filter.Offset).
		Msg("retrieved products")

	return products, nil
}

// GetByID retrieves a single active product by ID.
func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	if product, ok := s.cache.GetProduct(ctx, id); ok {
		return product, nil
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil || !product.IsActive {
		s.logger.Debug().Str("product_id", id.String()).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	s.cache.SetProduct(ctx, product)
	return product, nil
}

// ListForDealer retrieves the dealer's own products.
func (s *productService) ListForDealer(ctx context.Context, dealerID uuid.UUID, lowStockOnly bool) ([]model.Product, error) {
	products, err := s.productRepo.ListByDealer(ctx, dealerID, lowStockOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to get dealer products: %w", err)
	}
	return products, nil
}

func validateProduct(req *model.ProductRequest) error {
	if req == nil {
		return model.NewValidationError("request body is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return model.NewValidationError("name is required")
	}
	if strings.TrimSpace(req.Category) == "" {
		return model.NewValidationError("category is required")
	}
	if req.Price <= 0 {
		return model.NewValidationError("price must be greater than zero")
	}
	if req.StockQuantity < 0 || req.LowStockThreshold < 0 {
		return model.NewValidationError("stock values must not be negative")
	}
	return nil
}

// Create adds a product owned by the dealer.
func (s *productService) Create(ctx context.Context, dealerID uuid.UUID, req *model.ProductRequest) (*model.Product, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &model.Product{
		ID:        uuid.New(),
		DealerID:  dealerID,
		IsActive:  true,
		CreatedAt: now,
	}
	applyProductRequest(product, req, now)

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().
		Str("product_id", product.ID.String()).
		Str("dealer_id", dealerID.String()).
		Msg("product created")

	s.cache.Invalidate(ctx)
	s.publisher.Publish(realtime.ProductEvent(realtime.EventProductAdded, product))
	return product, nil
}

func applyProductRequest(p *model.Product, req *model.ProductRequest, now time.Time) {
	p.Name = strings.TrimSpace(req.Name)
	p.Description = req.Description
	p.Category = strings.TrimSpace(req.Category)
	p.Price = req.Price
	p.Images = req.Images
	if p.Images == nil {
		p.Images = []string{}
	}
	p.Stock = model.Stock{Quantity: req.StockQuantity, LowStockThreshold: req.LowStockThreshold}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	p.UpdatedAt = now
}

// owned loads a product and checks that the dealer owns it.
func (s *productService) owned(ctx context.Context, id, dealerID uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}
	if product.DealerID != dealerID {
		s.logger.Warn().
			Str("product_id", id.String()).
			Str("dealer_id", dealerID.String()).
			Msg("dealer does not own product")
		return nil, model.ErrProductForbidden
	}
	return product, nil
}

// Update replaces a product's fields.
func (s *productService) Update(ctx context.Context, id, dealerID uuid.UUID, req *model.ProductRequest) (*model.Product, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	product, err := s.owned(ctx, id, dealerID)
	if err != nil {
		return nil, err
	}

	applyProductRequest(product, req, time.Now().UTC())
	return s.save(ctx, product)
}

// UpdateStock changes a product's stock level and optionally its low-stock threshold.
func (s *productService) UpdateStock(ctx context.Context, id, dealerID uuid.UUID, req *model.StockRequest) (*model.Product, error) {
	if req == nil || req.Quantity < 0 {
		return nil, model.NewValidationError("quantity must not be negative")
	}
	if req.LowStockThreshold != nil && *req.LowStockThreshold < 0 {
		return nil, model.NewValidationError("low stock threshold must not be negative")
	}

	product, err := s.owned(ctx, id, dealerID)
	if err != nil {
		return nil, err
	}

	product.Stock.Quantity = req.Quantity
	if req.LowStockThreshold != nil {
		product.Stock.LowStockThreshold = *req.LowStockThreshold
	}
	product.UpdatedAt = time.Now().UTC()

	if product.Stock.IsLow() {
		s.logger.Info().
			Str("product_id", id.String()).
			Int("quantity", product.Stock.Quantity).
			Msg("product is low on stock")
	}
	return s.save(ctx, product)
}

func (s *productService) save(ctx context.Context, product *model.Product) (*model.Product, error) {
	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.cache.Invalidate(ctx)
	s.publisher.Publish(realtime.ProductEvent(realtime.EventProductUpdated, product))
	return product, nil
}

// Delete removes a product owned by the dealer.
func (s *productService) Delete(ctx context.Context, id, dealerID uuid.UUID) error {
	if _, err := s.owned(ctx, id, dealerID); err != nil {
		return err
	}

	deleted, err := s.productRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if !deleted {
		return model.ErrProductNotFound
	}

	s.logger.Info().Str("product_id", id.String()).Msg("product deleted")

	s.cache.Invalidate(ctx)
	s.publisher.Publish(realtime.ProductDeleted(id))
	return nil
}
