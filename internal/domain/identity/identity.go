// Package identity verifies that the caller of an operation is the
// participant it claims to act for. Real identity infrastructure is an
// external collaborator; this package defines the contract and two small
// implementations.
package identity

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when the current caller does not match the
// required provider identity.
var ErrUnauthorized = errors.New("unauthorized")

// Caller holds the credentials presented by the current request.
type Caller struct {
	Provider string
	Token    string
}

type callerKey struct{}

// WithCaller stores the caller credentials in ctx.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// CallerFrom extracts the caller credentials from ctx.
func CallerFrom(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey{}).(Caller)
	return c, ok
}

// Authenticator fails the calling operation if the current caller is not
// the given provider.
type Authenticator interface {
	Require(ctx context.Context, provider string) error
}

// Trusting accepts the presented identity as-is but still requires it to
// match the provider being acted for.
type Trusting struct{}

// NewTrusting creates an authenticator that trusts the presented identity.
func NewTrusting() *Trusting {
	return &Trusting{}
}

// Require checks that the caller claims the given provider identity.
func (t *Trusting) Require(ctx context.Context, provider string) error {
	c, ok := CallerFrom(ctx)
	if !ok || c.Provider != provider {
		return fmt.Errorf("caller is not %s: %w", provider, ErrUnauthorized)
	}
	return nil
}

// Static validates callers against a fixed provider -> token map.
type Static struct {
	tokens map[string]string
}

// NewStatic creates an authenticator backed by a static token map.
func NewStatic(tokens map[string]string) *Static {
	copied := make(map[string]string, len(tokens))
	for provider, token := range tokens {
		copied[provider] = token
	}
	return &Static{tokens: copied}
}

// Require checks the caller's identity and token against the static map.
func (s *Static) Require(ctx context.Context, provider string) error {
	c, ok := CallerFrom(ctx)
	if !ok || c.Provider != provider {
		return fmt.Errorf("caller is not %s: %w", provider, ErrUnauthorized)
	}
	want, known := s.tokens[provider]
	if !known || want != c.Token {
		return fmt.Errorf("invalid token for %s: %w", provider, ErrUnauthorized)
	}
	return nil
}
