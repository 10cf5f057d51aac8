// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

package profile

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"alumnet/cli/internal/dsn"
)

// connectTimeout bounds the initial ping.
const connectTimeout = 5 * time.Second

// PGStore reads and writes profiles directly in PostgreSQL. It is used with
// self-hosted stacks where the CLI is given a database URL.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore connects to databaseURL and verifies the connection.
func NewPGStore(ctx context.Context, databaseURL string) (*PGStore, error) {
	normalized, err := dsn.Normalize(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.New(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("open database pool: %w", err)
	}

	ctxPing, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return &PGStore{pool: pool}, nil
}

// Close releases the pool.
func (s *PGStore) Close() {
	s.pool.Close()
}

const selectProfile = `SELECT id::text, name, role::text,
	coalesce(email, ''), coalesce(bio, ''), coalesce(avatar_url, ''),
	coalesce(created_at, now()), coalesce(updated_at, now())
FROM profiles WHERE id = $1`

// GetProfileByID returns the profile of userID, or nil when no row exists.
func (s *PGStore) GetProfileByID(ctx context.Context, userID string) (*Profile, error) {
	id, err := ValidateUserID(userID)
	if err != nil {
		return nil, err
	}
	var p Profile
	var role string
	err = s.pool.QueryRow(ctx, selectProfile, id).Scan(
		&p.ID, &p.Name, &role, &p.Email, &p.Bio, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch profile %s: %w", id, err)
	}
	p.Role = Role(role)
	return &p, nil
}

// UpdateRow applies patch to the row of table whose id is id.
func (s *PGStore) UpdateRow(ctx context.Context, table, id string, patch map[string]any) error {
	sql, args, err := buildUpdate(table, id, patch)
	if err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	return nil
}

// buildUpdate renders UPDATE with quoted identifiers and positional
// arguments. Columns are sorted so the statement text is stable.
func buildUpdate(table, id string, patch map[string]any) (string, []any, error) {
	if len(patch) == 0 {
		return "", nil, errors.New("empty update")
	}
	cols := make([]string, 0, len(patch))
	for c := range patch {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+1)
	for i, c := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", pgx.Identifier{c}.Sanitize(), i+1)
		args = append(args, patch[c])
	}
	args = append(args, id)
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d",
		pgx.Identifier{table}.Sanitize(), strings.Join(sets, ", "), len(args))
	return sql, args, nil
}
