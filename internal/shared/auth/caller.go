// Package auth models the already-authenticated caller handed to use cases.
package auth

import (
	"errors"
	"strings"
)

// RoleAdmin grants access to every order and to catalog mutations.
const RoleAdmin = "ADMIN"

var (
	// ErrUnauthenticated signals a request without a resolved identity.
	ErrUnauthenticated = errors.New("caller is not authenticated")
	// ErrForbidden signals the caller may not act on the resource.
	ErrForbidden = errors.New("caller is not allowed to perform this action")
)

// Caller is the identity and role set resolved by the upstream authentication layer.
type Caller struct {
	Identity string
	Roles    []string
}

// NewCaller trims the identity and drops empty roles.
func NewCaller(identity string, roles ...string) Caller {
	caller := Caller{Identity: strings.TrimSpace(identity)}
	for _, role := range roles {
		if role = strings.TrimSpace(role); role != "" {
			caller.Roles = append(caller.Roles, role)
		}
	}
	return caller
}

// Authenticated reports whether an identity is present.
func (c Caller) Authenticated() bool {
	return strings.TrimSpace(c.Identity) != ""
}

// HasRole compares roles case-insensitively.
func (c Caller) HasRole(role string) bool {
	for _, r := range c.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

func (c Caller) IsAdmin() bool {
	return c.HasRole(RoleAdmin)
}

// CanAccess reports whether the caller owns the resource or is an administrator.
// Identities are e-mail addresses and compare case-insensitively.
func (c Caller) CanAccess(owner string) bool {
	if !c.Authenticated() {
		return false
	}
	return c.IsAdmin() || strings.EqualFold(c.Identity, strings.TrimSpace(owner))
}

// RequireAdmin returns ErrForbidden unless the caller is an administrator.
func (c Caller) RequireAdmin() error {
	if !c.Authenticated() {
		return ErrUnauthenticated
	}
	if !c.IsAdmin() {
		return ErrForbidden
	}
	return nil
}
