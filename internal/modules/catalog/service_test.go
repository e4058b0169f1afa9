package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/mkj2903/finalshowmo/internal/platform/validation"
	"go.uber.org/zap"
)

type memRepo struct {
	mu       sync.Mutex
	products map[string]*Product
}

func newMemRepo() *memRepo { return &memRepo{products: map[string]*Product{}} }

func (r *memRepo) Create(_ context.Context, p *Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.products[p.ID.String()] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memRepo) List(_ context.Context, f ListFilter) ([]*Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*Product{}
	for _, p := range r.products {
		if f.ActiveOnly && !p.IsActive {
			continue
		}
		if f.Category != "" && !strings.EqualFold(f.Category, p.Category) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memRepo) Update(_ context.Context, p *Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID.String()]; !ok {
		return ErrProductNotFound
	}
	cp := *p
	r.products[p.ID.String()] = &cp
	return nil
}

func (r *memRepo) SetActive(_ context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return ErrProductNotFound
	}
	p.IsActive = active
	return nil
}

func (r *memRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.products), nil
}

func validRequest() ProductRequest {
	return ProductRequest{
		Name:     "Dark Logo Tee",
		Category: "T-Shirts",
		Price:    599,
		Quantity: 10,
		Sizes:    []string{"S", "M", "L"},
	}
}

func TestCreateProductDefaultsMRP(t *testing.T) {
	s := NewService(newMemRepo(), zap.NewNop())

	p, err := s.CreateProduct(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if p.MRP != p.Price {
		t.Errorf("MRP = %d, want %d", p.MRP, p.Price)
	}
	if !p.IsActive {
		t.Error("new product should be active")
	}
	if p.Tags == nil || p.Images == nil {
		t.Error("empty slices should not be nil")
	}
}

func TestCreateProductValidation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(r *ProductRequest)
		field string
	}{
		{"short name", func(r *ProductRequest) { r.Name = "X" }, "name"},
		{"missing category", func(r *ProductRequest) { r.Category = " " }, "category"},
		{"zero price", func(r *ProductRequest) { r.Price = 0 }, "price"},
		{"mrp below price", func(r *ProductRequest) { r.MRP = 100 }, "mrp"},
		{"negative stock", func(r *ProductRequest) { r.Quantity = -1 }, "quantity"},
	}

	s := NewService(newMemRepo(), zap.NewNop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.edit(&req)
			_, err := s.CreateProduct(context.Background(), req)
			if ve, ok := validation.As(err); !ok || ve.Field != tt.field {
				t.Errorf("err = %v, want validation error on %s", err, tt.field)
			}
		})
	}
}

func TestUpdateAndDeactivateProduct(t *testing.T) {
	repo := newMemRepo()
	s := NewService(repo, zap.NewNop())
	ctx := context.Background()

	p, _ := s.CreateProduct(ctx, validRequest())

	req := validRequest()
	req.Price = 699
	req.MRP = 999
	updated, err := s.UpdateProduct(ctx, p.ID.String(), req)
	if err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	if updated.Price != 699 || updated.MRP != 999 {
		t.Errorf("updated = %+v", updated)
	}

	if err := s.DeactivateProduct(ctx, p.ID.String()); err != nil {
		t.Fatalf("DeactivateProduct: %v", err)
	}
	active, _ := s.ListProducts(ctx, ListFilter{ActiveOnly: true})
	if len(active) != 0 {
		t.Errorf("active products = %d, want 0", len(active))
	}

	if _, err := s.UpdateProduct(ctx, "missing", req); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("err = %v, want ErrProductNotFound", err)
	}
}

func TestPublicProductHidesInactive(t *testing.T) {
	repo := newMemRepo()
	s := NewService(repo, zap.NewNop())
	p, _ := s.CreateProduct(context.Background(), validRequest())
	_ = s.DeactivateProduct(context.Background(), p.ID.String())

	r := chi.NewRouter()
	NewHandler(s, zap.NewNop()).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/"+p.ID.String(), nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestAdminCreateProductEndpoint(t *testing.T) {
	r := chi.NewRouter()
	r.Route("/admin", NewHandler(NewService(newMemRepo(), zap.NewNop()), zap.NewNop()).RegisterAdminRoutes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/products",
		strings.NewReader(`{"name":"Mug","category":"Mugs","price":299,"quantity":5}`)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/products",
		strings.NewReader(`{"name":"Mug","category":"Mugs","price":0}`)))
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), `"field":"price"`) {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
}
