/*
Package escrow implements a two party escrow.

A sender locks a fixed amount of the native asset at an address derived from
(sender, recipient, escrow id). The recipient can accept the escrow and
receive the amount, or the sender can cancel it and get the amount back.
Either operation removes the escrow record in the same transaction that moves
the funds, so a closed escrow is indistinguishable from one that never
existed.

The escrow address is a program derived address: it is computed from the
seeds, a bump value and the configured owner identity, and is guaranteed to
not be a valid ed25519 public key. Nobody holds a private key for it, so the
funds can only be moved by this extension.
*/
package escrow
