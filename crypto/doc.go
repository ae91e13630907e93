/*
Package crypto provides the ed25519 keys used to sign transactions and the
derivation of addresses that are owned by the application instead of a key
holder.

A derived address is computed from a list of seeds, a bump byte and the
owner identity. It is guaranteed to not be a valid ed25519 public key, so
nobody can hold a private key for it and only the owner program can move the
funds it holds.
*/
package crypto
