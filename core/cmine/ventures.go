package cmine

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"pos2cmine/core/apierr"
	"pos2cmine/core/httpx"

	"go.uber.org/zap"
)

// Ventures returns every venture visible to the admin, following pagination.
func (s *Session) Ventures(ctx context.Context) ([]Venture, error) {
	var all []Venture
	err := s.eachVenturePage(ctx, func(page []Venture) error {
		all = append(all, page...)
		return nil
	})
	return all, err
}

// VentureIndex builds the title index of the ventures owned by owner, or of
// all ventures when owner is nil. A venture whose title is already indexed is
// deleted on the spot (unless the client is in dry-run); the first one seen is kept.
func (s *Session) VentureIndex(ctx context.Context, owner *int64) (*Index, error) {
	index := NewIndex()
	err := s.eachVenturePage(ctx, func(page []Venture) error {
		for _, v := range page {
			if owner != nil && v.UserID != *owner {
				continue
			}
			if index.Add(v) {
				continue
			}
			s.client.logger.Warn("Delete duplicate venture",
				zap.String("title", v.HighLevelPitch),
				zap.Int64("id", v.ID),
				zap.Bool("dry_run", s.client.dryRun),
			)
			if !s.client.dryRun {
				if err := s.DeleteVenture(ctx, v.ID); err != nil {
					return err
				}
			}
			index.Duplicates++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return index, nil
}

func (s *Session) eachVenturePage(ctx context.Context, fn func([]Venture) error) error {
	cursor := newLinkCursor(venturesPath)
	for !cursor.Done() {
		var page venturesResponse
		resp, err := s.getJSON(ctx, "get ventures", cursor.URL(), &page)
		if err != nil {
			return err
		}
		if err := fn(page.Ventures); err != nil {
			return err
		}
		cursor.Advance(resp.Header)
	}
	return nil
}

// CreateVenture creates a venture and returns the raw response body.
func (s *Session) CreateVenture(ctx context.Context, payload VenturePayload) ([]byte, error) {
	return s.writeVenture(ctx, http.MethodPost, venturesPath, "create venture", payload)
}

// UpdateVenture replaces the venture with the given id. Locations are never
// sent on update.
func (s *Session) UpdateVenture(ctx context.Context, id int64, payload VenturePayload) ([]byte, error) {
	return s.writeVenture(ctx, http.MethodPut, venturePath(id), "update venture", payload.withoutLocations())
}

func (s *Session) writeVenture(ctx context.Context, method, target, op string, payload VenturePayload) ([]byte, error) {
	logger := s.client.logger.With(zap.String("title", payload.Venture.HighLevelPitch))

	req, err := s.newRequest(ctx, method, target, payload)
	if err != nil {
		return nil, err
	}
	logger.Debug("CMINE: "+method, zap.String("url", req.URL.String()))
	if s.client.verbosity > 1 {
		logger.Debug("CMINE: payload", zap.Any("venture", payload))
	}

	resp, body, err := httpx.Do(s.client.http, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		if s.client.verbosity <= 1 {
			logger.Error("CMINE: rejected payload", zap.Any("venture", payload))
		}
		return nil, apierr.NewResponseError(apierr.ErrWrite, fmt.Sprintf("%s %q", op, payload.Venture.HighLevelPitch), resp, body)
	}
	if s.client.verbosity > 1 {
		logger.Debug("CMINE: response", zap.Any("headers", resp.Header), zap.ByteString("body", body))
	}
	return body, nil
}

// DeleteVenture deletes the venture with the given id.
func (s *Session) DeleteVenture(ctx context.Context, id int64) error {
	req, err := s.newRequest(ctx, http.MethodDelete, venturePath(id), nil)
	if err != nil {
		return err
	}
	s.client.logger.Debug("CMINE: DELETE", zap.String("url", req.URL.String()))

	resp, body, err := httpx.Do(s.client.http, req)
	if err != nil {
		return fmt.Errorf("delete venture %d: %w", id, err)
	}
	if resp.StatusCode != http.StatusNoContent {
		return apierr.NewResponseError(apierr.ErrDelete, "delete venture "+strconv.FormatInt(id, 10), resp, body)
	}
	return nil
}

func venturePath(id int64) string {
	return venturesPath + "/" + strconv.FormatInt(id, 10)
}
