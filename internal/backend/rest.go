// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

// rowsPath builds the data API path for table filtered by column = value.
func (h *HTTP) rowsPath(table, column, value string, extra url.Values) string {
	q := url.Values{}
	for k, v := range extra {
		q[k] = v
	}
	q.Set(column, "eq."+value)
	return h.endpoints.Rest + "/" + url.PathEscape(table) + "?" + q.Encode()
}

// SelectRows calls GET /rest/v1/<table>?<column>=eq.<value>&select=*.
func (h *HTTP) SelectRows(ctx context.Context, accessToken, table, column, value string, dest any) error {
	if table == "" || column == "" {
		return errors.New("table and column are required")
	}
	path := h.rowsPath(table, column, value, url.Values{"select": {"*"}})
	req, err := h.newRequest(ctx, http.MethodGet, path, accessToken, nil)
	if err != nil {
		return err
	}
	return h.doJSON(req, "select "+table, dest)
}

// UpdateRows calls PATCH /rest/v1/<table>?<column>=eq.<value> with the patch as body.
// The backend is asked not to echo the rows back.
func (h *HTTP) UpdateRows(ctx context.Context, accessToken, table, column, value string, patch map[string]any) error {
	if table == "" || column == "" {
		return errors.New("table and column are required")
	}
	if len(patch) == 0 {
		return errors.New("empty patch")
	}
	req, err := h.newRequest(ctx, http.MethodPatch, h.rowsPath(table, column, value, nil), accessToken, patch)
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "return=minimal")
	return h.doJSON(req, "update "+table, nil)
}
