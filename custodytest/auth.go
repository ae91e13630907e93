package custodytest

import (
	"context"
	"fmt"

	"github.com/iov-one/custody"
)

// Auth is a mock implementing x.Authenticator interface.
//
// This structure authenticates any of referenced identities.
// You can use either Signer or Signers (or both) attributes to reference
// identities. Each time all signers (regardless which attribute) are
// considered.
type Auth struct {
	// Signer represents an authentication of a single signer.
	Signer custody.Identity

	// Signers represents an authentication of multiple signers.
	Signers []custody.Identity
}

func (a *Auth) GetSigners(custody.Context) []custody.Identity {
	if a.Signer != nil {
		return append([]custody.Identity{a.Signer}, a.Signers...)
	}
	return a.Signers
}

func (a *Auth) HasIdentity(ctx custody.Context, id custody.Identity) bool {
	for _, s := range a.GetSigners(ctx) {
		if id.Equals(s) {
			return true
		}
	}
	return false
}

// CtxAuth is a mock implementing x.Authenticator interface.
//
// This implementation is using context to store and retrieve signers.
type CtxAuth struct {
	// Key used to set and retrieve signers from the context. For
	// convenience only string type keys are allowed.
	Key string
}

func (a *CtxAuth) SetSigners(ctx custody.Context, signers ...custody.Identity) custody.Context {
	return context.WithValue(ctx, a.Key, signers)
}

func (a *CtxAuth) GetSigners(ctx custody.Context) []custody.Identity {
	val := ctx.Value(a.Key)
	if val == nil {
		return nil
	}
	ids, ok := val.([]custody.Identity)
	if !ok {
		panic(fmt.Sprintf("instead of []custody.Identity got %T", val))
	}
	return ids
}

func (a *CtxAuth) HasIdentity(ctx custody.Context, id custody.Identity) bool {
	for _, s := range a.GetSigners(ctx) {
		if id.Equals(s) {
			return true
		}
	}
	return false
}
