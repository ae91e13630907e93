package sigs

import (
	"context"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/x"
)

type contextKey int // local to the sigs module

const (
	contextKeySigners contextKey = iota
)

// withSigners is a private method, as only this module
// can add a signer
func withSigners(ctx custody.Context, signers []custody.Identity) custody.Context {
	return context.WithValue(ctx, contextKeySigners, signers)
}

// Authenticate gives access to the signers verified by the Decorator.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetSigners returns who signed the current Context.
// May be empty
func (a Authenticate) GetSigners(ctx custody.Context) []custody.Identity {
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(contextKeySigners).([]custody.Identity)
	return val
}

// HasIdentity returns true if given identity signed the current Context.
func (a Authenticate) HasIdentity(ctx custody.Context, id custody.Identity) bool {
	for _, s := range a.GetSigners(ctx) {
		if id.Equals(s) {
			return true
		}
	}
	return false
}
