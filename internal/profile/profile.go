// Copyright (c) 2025 Alumnet
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package profile reads and updates member profiles, the application record
// stored next to the provider's identity record.
package profile

import (
	"fmt"
	"strings"
	"time"

	apperrors "alumnet/cli/internal/errors"
)

// Table is the remote table holding profile rows, keyed by user id.
const Table = "profiles"

// Role is the member kind chosen at sign-up.
type Role string

const (
	RoleStudent   Role = "student"
	RoleProfessor Role = "professor"
	RoleAlumni    Role = "alumni"
)

// Roles lists every valid role in display order.
var Roles = []Role{RoleStudent, RoleProfessor, RoleAlumni}

// Valid reports whether r is one of Roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleProfessor, RoleAlumni:
		return true
	}
	return false
}

// ParseRole accepts a role name case-insensitively.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", apperrors.New(apperrors.InvalidInput,
			fmt.Sprintf("unknown role %q (want student, professor or alumni)", s))
	}
	return r, nil
}

// Profile is one row of Table.
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	Email     string    `json:"email,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Patch is a partial profile update. Nil fields are left untouched.
// Id and role are fixed at sign-up and cannot be patched.
type Patch struct {
	Name      *string
	Bio       *string
	AvatarURL *string
}

// Empty reports whether the patch sets nothing.
func (p Patch) Empty() bool {
	return p.Name == nil && p.Bio == nil && p.AvatarURL == nil
}

// Fields returns the set keys as column/value pairs.
func (p Patch) Fields() map[string]any {
	f := make(map[string]any, 3)
	if p.Name != nil {
		f["name"] = *p.Name
	}
	if p.Bio != nil {
		f["bio"] = *p.Bio
	}
	if p.AvatarURL != nil {
		f["avatar_url"] = *p.AvatarURL
	}
	return f
}

// Merge returns a copy of p with the set fields of patch applied.
func (p Profile) Merge(patch Patch) Profile {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Bio != nil {
		p.Bio = *patch.Bio
	}
	if patch.AvatarURL != nil {
		p.AvatarURL = *patch.AvatarURL
	}
	return p
}
