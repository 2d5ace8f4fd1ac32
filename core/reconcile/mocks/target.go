package mocks

import (
	"context"
	"iter"

	"pos2cmine/core/cmine"
	"pos2cmine/core/pos"

	"github.com/stretchr/testify/mock"
)

// Target is a mock implementation of reconcile.Target
type Target struct {
	mock.Mock
}

func (m *Target) UserIDByEmail(ctx context.Context, email string) (int64, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Target) CustomAttributeNames(ctx context.Context, pattern string) ([]string, error) {
	args := m.Called(ctx, pattern)
	if names, ok := args.Get(0).([]string); ok {
		return names, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Target) VentureIndex(ctx context.Context, owner *int64) (*cmine.Index, error) {
	args := m.Called(ctx, owner)
	if index, ok := args.Get(0).(*cmine.Index); ok {
		return index, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Target) CreateVenture(ctx context.Context, payload cmine.VenturePayload) ([]byte, error) {
	args := m.Called(ctx, payload)
	if body, ok := args.Get(0).([]byte); ok {
		return body, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Target) UpdateVenture(ctx context.Context, id int64, payload cmine.VenturePayload) ([]byte, error) {
	args := m.Called(ctx, id, payload)
	if body, ok := args.Get(0).([]byte); ok {
		return body, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Target) DeleteVenture(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Source is a fixed in-memory reconcile.Source.
// Err, when set, is yielded after the records.
type Source struct {
	Items []pos.Record
	Err   error
	// Reads counts how often the sequence was started.
	Reads int
}

func (s *Source) Records(ctx context.Context) iter.Seq2[pos.Record, error] {
	return func(yield func(pos.Record, error) bool) {
		s.Reads++
		for _, rec := range s.Items {
			if !yield(rec, nil) {
				return
			}
		}
		if s.Err != nil {
			yield(pos.Record{}, s.Err)
		}
	}
}
