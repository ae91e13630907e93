package x

import (
	"github.com/iov-one/custody"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of
// handlers, so we can plug in another authentication system,
// rather than hard-coding x/sigs for all extensions.
type Authenticator interface {
	// GetSigners reveals all identities that authorized the transaction,
	// you may want GetAddresses helper
	GetSigners(custody.Context) []custody.Identity
	// HasIdentity checks if this identity authorized the transaction
	HasIdentity(custody.Context, custody.Identity) bool
}

// MultiAuth chains together many Authenticators into one
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetSigners combines all signers from all Authenticators
func (m MultiAuth) GetSigners(ctx custody.Context) []custody.Identity {
	var res []custody.Identity
	for _, impl := range m.impls {
		for _, id := range impl.GetSigners(ctx) {
			if !hasIdentity(res, id) {
				res = append(res, id)
			}
		}
	}
	return res
}

// HasIdentity returns true iff any Authenticator support this
func (m MultiAuth) HasIdentity(ctx custody.Context, id custody.Identity) bool {
	for _, impl := range m.impls {
		if impl.HasIdentity(ctx, id) {
			return true
		}
	}
	return false
}

// GetAddresses returns the wallet addresses of all signers
func GetAddresses(ctx custody.Context, auth Authenticator) []custody.Address {
	signers := auth.GetSigners(ctx)
	addrs := make([]custody.Address, len(signers))
	for i, s := range signers {
		addrs[i] = s.Address()
	}
	return addrs
}

// MainSigner returns the first signer if any, otherwise nil
func MainSigner(ctx custody.Context, auth Authenticator) custody.Identity {
	signers := auth.GetSigners(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// HasAllSigners returns true if all elements in required are
// also in context.
func HasAllSigners(ctx custody.Context, auth Authenticator, required []custody.Identity) bool {
	return HasNSigners(ctx, auth, required, len(required))
}

// HasNSigners returns true if at least n elements in required are
// also in context.
func HasNSigners(ctx custody.Context, auth Authenticator, required []custody.Identity, n int) bool {
	if n <= 0 {
		return true
	}
	for _, r := range required {
		if auth.HasIdentity(ctx, r) {
			n--
			if n == 0 {
				return true
			}
		}
	}
	return false
}

func hasIdentity(ids []custody.Identity, id custody.Identity) bool {
	for _, i := range ids {
		if i.Equals(id) {
			return true
		}
	}
	return false
}
