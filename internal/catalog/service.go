package catalog

import (
	"context"
	"strings"

	"github.com/runtiger2024/buy1688-sub000/internal/apperr"
	"github.com/runtiger2024/buy1688-sub000/internal/pricing"
)

type Store interface {
	Categories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, in CategoryInput) (Category, error)
	UpdateCategory(ctx context.Context, id int64, in CategoryInput) (Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	Products(ctx context.Context, f ProductFilter) ([]Product, error)
	Product(ctx context.Context, id int64) (Product, error)
	CreateProduct(ctx context.Context, in ProductInput) (Product, error)
	UpdateProduct(ctx context.Context, id int64, in ProductInput) (Product, error)
	SetArchived(ctx context.Context, id int64, archived bool) (Product, error)
	ProductsByID(ctx context.Context, ids []int64) (map[int64]Product, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	return s.store.Categories(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (Category, error) {
	in, err := cleanCategory(in)
	if err != nil {
		return Category{}, err
	}
	return s.store.CreateCategory(ctx, in)
}

func (s *Service) UpdateCategory(ctx context.Context, id int64, in CategoryInput) (Category, error) {
	in, err := cleanCategory(in)
	if err != nil {
		return Category{}, err
	}
	return s.store.UpdateCategory(ctx, id, in)
}

// DeleteCategory leaves the category's products uncategorised.
func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	return s.store.DeleteCategory(ctx, id)
}

// Products lists the catalog. Archived products are only listed for staff.
func (s *Service) Products(ctx context.Context, f ProductFilter) ([]Product, error) {
	return s.store.Products(ctx, f)
}

func (s *Service) Product(ctx context.Context, id int64, includeArchived bool) (Product, error) {
	p, err := s.store.Product(ctx, id)
	if err != nil {
		return Product{}, err
	}
	if p.IsArchived && !includeArchived {
		return Product{}, apperr.NotFound("product %d not found", id)
	}
	return p, nil
}

func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (Product, error) {
	in, err := cleanProduct(in)
	if err != nil {
		return Product{}, err
	}
	return s.store.CreateProduct(ctx, in)
}

func (s *Service) UpdateProduct(ctx context.Context, id int64, in ProductInput) (Product, error) {
	in, err := cleanProduct(in)
	if err != nil {
		return Product{}, err
	}
	return s.store.UpdateProduct(ctx, id, in)
}

func (s *Service) Archive(ctx context.Context, id int64) (Product, error) {
	return s.store.SetArchived(ctx, id, true)
}

func (s *Service) Unarchive(ctx context.Context, id int64) (Product, error) {
	return s.store.SetArchived(ctx, id, false)
}

// LookupForOrder returns the requested products keyed by id, archived ones included.
// Ids that do not exist are absent from the map.
func (s *Service) LookupForOrder(ctx context.Context, ids []int64) (map[int64]Product, error) {
	if len(ids) == 0 {
		return map[int64]Product{}, nil
	}
	return s.store.ProductsByID(ctx, ids)
}

func cleanCategory(in CategoryInput) (CategoryInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" {
		return in, apperr.Validation("category name is required")
	}
	return in, nil
}

func cleanProduct(in ProductInput) (ProductInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	switch {
	case in.Name == "":
		return in, apperr.Validation("product name is required")
	case in.Price < 0:
		return in, apperr.Validation("price must not be negative")
	}
	if err := pricing.CheckCost(in.CostCNY); err != nil {
		return in, apperr.Validation("%v", err)
	}
	return in, nil
}
