// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

package profile

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	apperrors "alumnet/cli/internal/errors"
)

// Querier reads a single row by id. *auth.Client satisfies it.
type Querier interface {
	SelectByID(ctx context.Context, table, id string, dest any) (bool, error)
}

// Service is the read path for profiles over the hosted data API.
type Service struct {
	q Querier
}

// NewService returns a Service reading through q.
func NewService(q Querier) *Service {
	return &Service{q: q}
}

// GetProfileByID returns the profile of userID, or nil when no row exists yet.
func (s *Service) GetProfileByID(ctx context.Context, userID string) (*Profile, error) {
	id, err := ValidateUserID(userID)
	if err != nil {
		return nil, err
	}
	var p Profile
	found, err := s.q.SelectByID(ctx, Table, id, &p)
	if err != nil {
		return nil, fmt.Errorf("fetch profile %s: %w", id, err)
	}
	if !found {
		return nil, nil
	}
	return &p, nil
}

// ValidateUserID checks that id is a UUID and returns its canonical form.
func ValidateUserID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", apperrors.Wrap(apperrors.InvalidInput, fmt.Sprintf("invalid user id %q", id), err)
	}
	return u.String(), nil
}
