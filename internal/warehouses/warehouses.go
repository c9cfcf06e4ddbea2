// Package warehouses manages the intermediary warehouses assist orders are shipped to.
package warehouses

import (
	"context"
	"strings"
	"time"

	"github.com/runtiger2024/buy1688-sub000/internal/apperr"
)

type Warehouse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Receiver  string    `json:"receiver"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type Input struct {
	Name     string `json:"name"`
	Receiver string `json:"receiver"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	IsActive *bool  `json:"is_active"`
}

type Store interface {
	List(ctx context.Context, activeOnly bool) ([]Warehouse, error)
	Get(ctx context.Context, id int64) (Warehouse, error)
	Create(ctx context.Context, w Warehouse) (Warehouse, error)
	Update(ctx context.Context, w Warehouse) (Warehouse, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) ListActive(ctx context.Context) ([]Warehouse, error) {
	return s.store.List(ctx, true)
}

func (s *Service) ListAll(ctx context.Context) ([]Warehouse, error) {
	return s.store.List(ctx, false)
}

func (s *Service) Get(ctx context.Context, id int64) (Warehouse, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (Warehouse, error) {
	w, err := fromInput(in)
	if err != nil {
		return Warehouse{}, err
	}
	w.IsActive = in.IsActive == nil || *in.IsActive
	return s.store.Create(ctx, w)
}

// Update replaces the warehouse fields; the active flag is kept unless supplied.
func (s *Service) Update(ctx context.Context, id int64, in Input) (Warehouse, error) {
	cur, err := s.store.Get(ctx, id)
	if err != nil {
		return Warehouse{}, err
	}
	w, err := fromInput(in)
	if err != nil {
		return Warehouse{}, err
	}
	w.ID = id
	w.IsActive = cur.IsActive
	if in.IsActive != nil {
		w.IsActive = *in.IsActive
	}
	return s.store.Update(ctx, w)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

func fromInput(in Input) (Warehouse, error) {
	w := Warehouse{
		Name:     strings.TrimSpace(in.Name),
		Receiver: strings.TrimSpace(in.Receiver),
		Phone:    strings.TrimSpace(in.Phone),
		Address:  strings.TrimSpace(in.Address),
	}
	if w.Name == "" {
		return w, apperr.Validation("warehouse name is required")
	}
	if w.Address == "" {
		return w, apperr.Validation("warehouse address is required")
	}
	return w, nil
}
