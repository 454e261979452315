// Package scope carries the caller's identity and branch visibility through
// every data access. Repositories take a Scope as an explicit argument so an
// unscoped query cannot be written by accident.
package scope

import (
	"context"
	"errors"
	"fmt"
)

// Roles understood by the system.
const (
	RoleOwner = "owner"
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// AllBranches is the sentinel branch assignment meaning "no branch restriction".
const AllBranches = "All"

// ErrNoScopeInContext is returned when caller scope is missing from a context.
var ErrNoScopeInContext = errors.New("no caller scope in context")

// Scope identifies the caller performing an operation and bounds what data
// the operation may touch.
type Scope struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Branch string `json:"branch"`
}

// Restricted reports whether the caller is pinned to a single branch.
// A caller with branch "All" sees every branch; anyone else, regardless of
// role, only sees their own.
func (s Scope) Restricted() bool {
	return s.Branch != "" && s.Branch != AllBranches
}

// EffectiveBranch resolves the branch filter for a query. A restricted
// caller's assigned branch always wins over a caller-supplied request
// parameter; unrestricted callers may narrow to any branch (empty or "All"
// means no filter).
func (s Scope) EffectiveBranch(requested string) string {
	if s.Restricted() {
		return s.Branch
	}
	if requested == AllBranches {
		return ""
	}
	return requested
}

// IsManagement reports whether the caller holds an owner or admin role.
func (s Scope) IsManagement() bool {
	return s.Role == RoleOwner || s.Role == RoleAdmin
}

// IsOwner reports whether the caller is the system owner.
func (s Scope) IsOwner() bool {
	return s.Role == RoleOwner
}

// String returns a compact representation for logging.
func (s Scope) String() string {
	return fmt.Sprintf("%s/%s@%s", s.Role, s.Email, s.Branch)
}

// System returns the scope used by background tasks. It is unrestricted;
// the snapshot broadcaster and seed routines operate across all branches.
func System() Scope {
	return Scope{
		UserID: "00000000-0000-0000-0000-000000000000",
		Email:  "system@premierlux.local",
		Name:   "System",
		Role:   RoleOwner,
		Branch: AllBranches,
	}
}

// contextKey is a private type for context keys to prevent collisions
type contextKey string

const scopeKey contextKey = "caller_scope"

// WithScope returns a new context carrying the caller scope.
// Called by the auth middleware after validating the bearer token.
func WithScope(ctx context.Context, s Scope) context.Context {
	return context.WithValue(ctx, scopeKey, s)
}

// FromContext extracts the caller scope from the context.
// Returns ErrNoScopeInContext when absent.
func FromContext(ctx context.Context) (Scope, error) {
	s, ok := ctx.Value(scopeKey).(Scope)
	if !ok || s.Role == "" {
		return Scope{}, ErrNoScopeInContext
	}
	return s, nil
}

// MustFromContext extracts the caller scope and panics if missing.
// Use only behind the auth middleware where scope is guaranteed.
func MustFromContext(ctx context.Context) Scope {
	s, err := FromContext(ctx)
	if err != nil {
		panic("caller scope not found in context")
	}
	return s
}
