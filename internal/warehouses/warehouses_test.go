package warehouses

import (
	"context"
	"errors"
	"testing"

	"github.com/runtiger2024/buy1688-sub000/internal/apperr"
)

type memStore map[int64]Warehouse

func (m memStore) List(_ context.Context, activeOnly bool) ([]Warehouse, error) {
	var out []Warehouse
	for id := int64(1); id <= int64(len(m)); id++ {
		if w, ok := m[id]; ok && (w.IsActive || !activeOnly) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (m memStore) Get(_ context.Context, id int64) (Warehouse, error) {
	w, ok := m[id]
	if !ok {
		return Warehouse{}, apperr.NotFound("warehouse %d not found", id)
	}
	return w, nil
}

func (m memStore) Create(_ context.Context, w Warehouse) (Warehouse, error) {
	w.ID = int64(len(m)) + 1
	m[w.ID] = w
	return w, nil
}

func (m memStore) Update(_ context.Context, w Warehouse) (Warehouse, error) {
	m[w.ID] = w
	return w, nil
}

func (m memStore) Delete(_ context.Context, id int64) error {
	delete(m, id)
	return nil
}

func TestCreateAndDeactivate(t *testing.T) {
	store := memStore{}
	s := NewService(store)
	ctx := context.Background()

	a, err := s.Create(ctx, Input{Name: " Xiamen ", Address: "No. 1 Road", Receiver: "Lin"})
	if err != nil {
		t.Fatal(err)
	}
	if !a.IsActive || a.Name != "Xiamen" {
		t.Fatalf("created = %+v", a)
	}
	no := false
	if _, err := s.Create(ctx, Input{Name: "Old", Address: "Somewhere", IsActive: &no}); err != nil {
		t.Fatal(err)
	}

	active, _ := s.ListActive(ctx)
	all, _ := s.ListAll(ctx)
	if len(active) != 1 || len(all) != 2 {
		t.Fatalf("active=%d all=%d", len(active), len(all))
	}

	u, err := s.Update(ctx, a.ID, Input{Name: "Xiamen 2", Address: "No. 2 Road"})
	if err != nil {
		t.Fatal(err)
	}
	if !u.IsActive || u.Receiver != "" {
		t.Errorf("update kept wrong fields: %+v", u)
	}
	u, _ = s.Update(ctx, a.ID, Input{Name: "Xiamen 2", Address: "No. 2 Road", IsActive: &no})
	if u.IsActive {
		t.Error("warehouse should be inactive")
	}
}

func TestValidation(t *testing.T) {
	s := NewService(memStore{})
	for _, in := range []Input{{Address: "x"}, {Name: "x"}} {
		if _, err := s.Create(context.Background(), in); !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("Create(%+v) err = %v", in, err)
		}
	}
	if _, err := s.Update(context.Background(), 7, Input{Name: "x", Address: "y"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("update missing err = %v", err)
	}
}
