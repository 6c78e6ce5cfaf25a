package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/brightcart/admin-api/internal/models"
	appErrors "github.com/brightcart/admin-api/pkg/errors"
)

const productCachePrefix = "catalog:products:"

type productRepository interface {
	List(ctx context.Context, filter models.ProductFilter) ([]models.Product, int, error)
	FindByID(ctx context.Context, id string) (*models.Product, error)
	ExistsBySKU(ctx context.Context, sku string, excludeID string) (bool, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Deactivate(ctx context.Context, id string) error
}

type listingCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CreateProductRequest holds payload for creating products.
type CreateProductRequest struct {
	SKU         string `json:"sku" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Category    string `json:"category" validate:"required"`
	PriceCents  int64  `json:"price_cents" validate:"gte=0"`
	Stock       int    `json:"stock" validate:"gte=0"`
	ImageURL    string `json:"image_url"`
}

// UpdateProductRequest holds payload for updating products.
type UpdateProductRequest struct {
	SKU         string `json:"sku" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Category    string `json:"category" validate:"required"`
	PriceCents  int64  `json:"price_cents" validate:"gte=0"`
	Stock       int    `json:"stock" validate:"gte=0"`
	ImageURL    string `json:"image_url"`
	Active      bool   `json:"active"`
}

type cachedProductList struct {
	Products []models.Product `json:"products"`
	Total    int              `json:"total"`
}

// ProductService handles catalog use-cases. Listings are cached; any
// mutation drops the whole listing keyspace.
type ProductService struct {
	repo      productRepository
	cache     listingCache
	validator *validator.Validate
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewProductService constructs the product service. A nil cache disables
// listing caching.
func NewProductService(repo productRepository, cache listingCache, validate *validator.Validate, logger *zap.Logger, cacheTTL time.Duration) *ProductService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &ProductService{repo: repo, cache: cache, validator: validate, logger: logger, cacheTTL: cacheTTL}
}

// List returns products and pagination metadata.
func (s *ProductService) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, *models.Pagination, error) {
	key := productListCacheKey(filter)
	if s.cache != nil {
		var cached cachedProductList
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached.Products, paginationFor(filter.Page, filter.PageSize, cached.Total), nil
		}
	}

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list products")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, cachedProductList{Products: products, Total: total}, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache product listing", zap.Error(err))
		}
	}

	return products, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns a product by ID.
func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "product not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load product")
	}
	return product, nil
}

// Create registers a new product.
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*models.Product, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid product payload")
	}
	exists, err := s.repo.ExistsBySKU(ctx, req.SKU, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate sku")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "sku already used")
	}
	product := &models.Product{
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		PriceCents:  req.PriceCents,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		Active:      true,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create product")
	}
	s.invalidateListings(ctx)
	return product, nil
}

// Update modifies an existing product record.
func (s *ProductService) Update(ctx context.Context, id string, req UpdateProductRequest) (*models.Product, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid product payload")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "product not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load product")
	}
	exists, err := s.repo.ExistsBySKU(ctx, req.SKU, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate sku")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "sku already used")
	}
	product.SKU = req.SKU
	product.Name = req.Name
	product.Description = req.Description
	product.Category = req.Category
	product.PriceCents = req.PriceCents
	product.Stock = req.Stock
	product.ImageURL = req.ImageURL
	product.Active = req.Active
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update product")
	}
	s.invalidateListings(ctx)
	return product, nil
}

// Deactivate marks a product inactive.
func (s *ProductService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "product not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load product")
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate product")
	}
	s.invalidateListings(ctx)
	return nil
}

func (s *ProductService) invalidateListings(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, productCachePrefix+"*"); err != nil {
		s.logger.Warn("failed to invalidate product listing cache", zap.Error(err))
	}
}

func productListCacheKey(filter models.ProductFilter) string {
	active := "any"
	if filter.Active != nil {
		active = fmt.Sprintf("%t", *filter.Active)
	}
	return fmt.Sprintf("%scat=%s:act=%s:q=%s:p=%d:s=%d:sort=%s:%s",
		productCachePrefix, filter.Category, active, filter.Search, filter.Page, filter.PageSize, filter.SortBy, filter.SortOrder)
}

func paginationFor(page, size, total int) *models.Pagination {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	return &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}
