package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/runtiger2024/buy1688-sub000/internal/apperr"
	"github.com/shopspring/decimal"
)

type memStore struct {
	products map[int64]Product
	cats     map[int64]Category
	next     int64
}

func newMemStore() *memStore {
	return &memStore{products: map[int64]Product{}, cats: map[int64]Category{}}
}

func (m *memStore) Categories(context.Context) ([]Category, error) {
	out := make([]Category, 0, len(m.cats))
	for _, c := range m.cats {
		out = append(out, c)
	}
	return out, nil
}

func (m *memStore) CreateCategory(_ context.Context, in CategoryInput) (Category, error) {
	m.next++
	c := Category{ID: m.next, Name: in.Name, Description: in.Description}
	m.cats[c.ID] = c
	return c, nil
}

func (m *memStore) UpdateCategory(_ context.Context, id int64, in CategoryInput) (Category, error) {
	if _, ok := m.cats[id]; !ok {
		return Category{}, apperr.NotFound("category %d not found", id)
	}
	c := Category{ID: id, Name: in.Name, Description: in.Description}
	m.cats[id] = c
	return c, nil
}

func (m *memStore) DeleteCategory(_ context.Context, id int64) error {
	delete(m.cats, id)
	return nil
}

func (m *memStore) Products(_ context.Context, f ProductFilter) ([]Product, error) {
	var out []Product
	for _, p := range m.products {
		if p.IsArchived && !f.IncludeArchived {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *memStore) Product(_ context.Context, id int64) (Product, error) {
	p, ok := m.products[id]
	if !ok {
		return Product{}, apperr.NotFound("product %d not found", id)
	}
	return p, nil
}

func (m *memStore) CreateProduct(_ context.Context, in ProductInput) (Product, error) {
	m.next++
	p := Product{ID: m.next, Name: in.Name, Description: in.Description, ImageURL: in.ImageURL,
		CategoryID: in.CategoryID, Price: in.Price, CostCNY: in.CostCNY}
	m.products[p.ID] = p
	return p, nil
}

func (m *memStore) UpdateProduct(ctx context.Context, id int64, in ProductInput) (Product, error) {
	p, err := m.Product(ctx, id)
	if err != nil {
		return Product{}, err
	}
	p.Name, p.Price, p.CostCNY = in.Name, in.Price, in.CostCNY
	m.products[id] = p
	return p, nil
}

func (m *memStore) SetArchived(ctx context.Context, id int64, archived bool) (Product, error) {
	p, err := m.Product(ctx, id)
	if err != nil {
		return Product{}, err
	}
	p.IsArchived = archived
	m.products[id] = p
	return p, nil
}

func (m *memStore) ProductsByID(_ context.Context, ids []int64) (map[int64]Product, error) {
	out := map[int64]Product{}
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func TestCreateProductValidation(t *testing.T) {
	s := NewService(newMemStore())
	tests := []struct {
		name string
		in   ProductInput
		ok   bool
	}{
		{"valid", ProductInput{Name: " Mug ", Price: 120, CostCNY: decimal.RequireFromString("12.5")}, true},
		{"free", ProductInput{Name: "Sticker"}, true},
		{"no name", ProductInput{Name: "  ", Price: 10}, false},
		{"negative price", ProductInput{Name: "Mug", Price: -1}, false},
		{"negative cost", ProductInput{Name: "Mug", Price: 1, CostCNY: decimal.NewFromInt(-1)}, false},
		{"cost beyond column", ProductInput{Name: "Mug", Price: 1, CostCNY: decimal.RequireFromString("10000000000")}, false},
		{"cost with 5 decimals", ProductInput{Name: "Mug", Price: 1, CostCNY: decimal.RequireFromString("0.00499")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := s.CreateProduct(context.Background(), tt.in)
			if tt.ok {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if p.Name != strings.TrimSpace(tt.in.Name) {
					t.Errorf("name not trimmed: %q", p.Name)
				}
				return
			}
			if !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("err = %v, want validation", err)
			}
		})
	}
}

func TestArchivedProductHiddenFromPublic(t *testing.T) {
	store := newMemStore()
	s := NewService(store)
	ctx := context.Background()
	p, _ := s.CreateProduct(ctx, ProductInput{Name: "Lamp", Price: 300})
	if _, err := s.Archive(ctx, p.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Product(ctx, p.ID, false); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("public get of archived product err = %v", err)
	}
	if got, err := s.Product(ctx, p.ID, true); err != nil || !got.IsArchived {
		t.Errorf("staff get = %+v, %v", got, err)
	}
	if list, _ := s.Products(ctx, ProductFilter{}); len(list) != 0 {
		t.Errorf("public list contains archived: %+v", list)
	}

	found, err := s.LookupForOrder(ctx, []int64{p.ID, 999})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := found[999]; ok || !found[p.ID].IsArchived {
		t.Errorf("lookup = %+v", found)
	}

	if _, err := s.Unarchive(ctx, p.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Product(ctx, p.ID, false); err != nil {
		t.Errorf("unarchived product should be visible: %v", err)
	}
}

func TestCategoryNameRequired(t *testing.T) {
	s := NewService(newMemStore())
	if _, err := s.CreateCategory(context.Background(), CategoryInput{Name: " "}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("err = %v", err)
	}
	c, err := s.CreateCategory(context.Background(), CategoryInput{Name: " Toys "})
	if err != nil || c.Name != "Toys" {
		t.Fatalf("create = %+v, %v", c, err)
	}
}
