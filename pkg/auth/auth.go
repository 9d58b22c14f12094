package auth

import (
	"context"
	"errors"
	"slices"
)

type contextKey string

const principalKey contextKey = "principal"

const (
	RoleViewer = "viewer"
	RoleUser   = "user"
	RoleAdmin  = "admin"
)

// Principal is the caller identified by a bearer token
type Principal struct {
	Subject string
	Roles   []string
}

// ContextWithPrincipal adds the principal to the context
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext extracts the principal from the context
func PrincipalFromContext(ctx context.Context) (*Principal, error) {
	p, ok := ctx.Value(principalKey).(*Principal)
	if !ok {
		return nil, errors.New("principal not found")
	}
	return p, nil
}

type Authorizer struct{}

func NewAuthorizer() *Authorizer {
	return &Authorizer{}
}

// CanRead allows any authenticated caller to see lists
func (a *Authorizer) CanRead(p *Principal) bool {
	return p != nil
}

// CanWrite allows users and admins to change lists and todos
func (a *Authorizer) CanWrite(p *Principal) bool {
	return p != nil && (hasRole(p, RoleUser) || hasRole(p, RoleAdmin))
}

func hasRole(p *Principal, role string) bool {
	return slices.Contains(p.Roles, role)
}
