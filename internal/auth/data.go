// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"
	"encoding/json"
)

// idColumn is the primary key column used by row filters.
const idColumn = "id"

// UpdateRow applies patch to the row of table whose id is id, authenticated
// as the current user (row-level security decides what is writable).
func (c *Client) UpdateRow(ctx context.Context, table, id string, patch map[string]any) error {
	return c.be.UpdateRows(ctx, c.accessToken(ctx), table, idColumn, id, patch)
}

// SelectByID decodes the row of table whose id is id into dest and reports
// whether it exists.
func (c *Client) SelectByID(ctx context.Context, table, id string, dest any) (bool, error) {
	var rows []json.RawMessage
	if err := c.be.SelectRows(ctx, c.accessToken(ctx), table, idColumn, id, &rows); err != nil {
		return false, err
	}
	if len(rows) == 0 {
		return false, nil
	}
	return true, json.Unmarshal(rows[0], dest)
}
