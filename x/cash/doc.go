/*
Package cash defines a simple implementation of sending the native asset
between wallets.

There is no logic in the coins, except that the balance of any wallet may
not go below zero and may not overflow. Thus, this implementation is
referred to as cash. Simple and safe.

Wallets with a zero balance are removed from the store, so an address
holds a balance if and only if a wallet exists for it.
*/
package cash
