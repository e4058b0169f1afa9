package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/mkj2903/finalshowmo/internal/platform/validation"
	"go.uber.org/zap"
)

// Service defines catalog business logic.
type Service interface {
	CreateProduct(ctx context.Context, req ProductRequest) (*Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context, f ListFilter) ([]*Product, error)
	UpdateProduct(ctx context.Context, id string, req ProductRequest) (*Product, error)
	DeactivateProduct(ctx context.Context, id string) error
	CountProducts(ctx context.Context) (int, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{repo: repo, logger: logger}
}

func (s *service) CreateProduct(ctx context.Context, req ProductRequest) (*Product, error) {
	if err := validateProduct(&req); err != nil {
		return nil, err
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	p := &Product{ID: uuid.New(), IsActive: active}
	apply(p, req)

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("product created", zap.String("id", p.ID.String()), zap.String("name", p.Name))
	return p, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListProducts(ctx context.Context, f ListFilter) ([]*Product, error) {
	if f.Limit < 0 || f.Limit > 200 {
		f.Limit = 200
	}
	return s.repo.List(ctx, f)
}

func (s *service) UpdateProduct(ctx context.Context, id string, req ProductRequest) (*Product, error) {
	if err := validateProduct(&req); err != nil {
		return nil, err
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	apply(p, req)
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeactivateProduct hides a product. Past orders keep their snapshots.
func (s *service) DeactivateProduct(ctx context.Context, id string) error {
	return s.repo.SetActive(ctx, id, false)
}

func (s *service) CountProducts(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// ── helpers ──────────────────────────────────────────────────────────────────

func validateProduct(req *ProductRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(req.Category)

	if req.MRP == 0 {
		req.MRP = req.Price
	}
	switch {
	case len(req.Name) < 2:
		return validation.New("name", "Product name must be at least 2 characters")
	case req.Category == "":
		return validation.New("category", "Category is required")
	case req.Price <= 0:
		return validation.New("price", "Price must be greater than 0")
	case req.MRP < req.Price:
		return validation.New("mrp", "MRP must not be lower than price")
	case req.Quantity < 0:
		return validation.New("quantity", "Quantity must not be negative")
	}
	return nil
}

func apply(p *Product, req ProductRequest) {
	p.Name = req.Name
	p.Description = req.Description
	p.Category = req.Category
	p.SubCategory = req.SubCategory
	p.Price = req.Price
	p.MRP = req.MRP
	p.Quantity = req.Quantity
	p.Sizes = nonNil(req.Sizes)
	p.Colors = nonNil(req.Colors)
	p.Images = nonNil(req.Images)
	p.Tags = nonNil(req.Tags)
	p.Featured = req.Featured
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
