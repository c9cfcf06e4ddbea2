package settings

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/runtiger2024/buy1688-sub000/internal/apperr"
	"github.com/shopspring/decimal"
)

type Store interface {
	All(ctx context.Context) (Map, error)
	Upsert(ctx context.Context, values Map) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Get reads the current settings; nothing is cached.
func (s *Service) Get(ctx context.Context) (Map, error) {
	return s.store.All(ctx)
}

func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	m, err := s.store.All(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return m.Snapshot(), nil
}

// Update validates and writes the supplied keys, leaving the others untouched.
func (s *Service) Update(ctx context.Context, values map[string]any) (Map, error) {
	if len(values) == 0 {
		return nil, apperr.Validation("no settings supplied")
	}
	patch := make(Map, len(values))
	for k, raw := range values {
		if !known[k] {
			return nil, apperr.Validation("unknown setting %q", k)
		}
		v, err := stringify(raw)
		if err != nil {
			return nil, apperr.Validation("setting %q: %v", k, err)
		}
		patch[k] = v
	}

	if v, ok := patch[KeyExchangeRate]; ok {
		rate, err := decimal.NewFromString(v)
		if err != nil || !rate.IsPositive() {
			return nil, apperr.Validation("exchange_rate must be a positive number")
		}
	}
	if v, ok := patch[KeyServiceFee]; ok {
		fee, err := decimal.NewFromString(v)
		if err != nil || fee.IsNegative() {
			return nil, apperr.Validation("service_fee must be a non-negative number")
		}
	}

	if v := patch[KeyPaymentInstructions]; v != "" {
		if _, err := parseInstructions(v); err != nil {
			return nil, apperr.Validation("%s: %v", KeyPaymentInstructions, err)
		}
	}

	if err := s.store.Upsert(ctx, patch); err != nil {
		return nil, err
	}
	return s.store.All(ctx)
}

func stringify(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), nil
	case json.Number:
		return t.String(), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case nil:
		return "", nil
	default:
		return "", errUnsupported
	}
}

var errUnsupported = errors.New("value must be a string or a number")
