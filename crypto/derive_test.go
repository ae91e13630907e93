package crypto

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func escrowSeeds(sender, recipient custody.Identity, id uint64) [][]byte {
	var raw [8]byte
	binary.LittleEndian.PutUint64(raw[:], id)
	return [][]byte{[]byte("escrow"), sender, recipient, raw[:]}
}

func TestFindDerivedAddressIsDeterministic(t *testing.T) {
	owner := GenPrivKeyEd25519().PublicKey()
	sender := GenPrivKeyEd25519().PublicKey()
	recipient := GenPrivKeyEd25519().PublicKey()

	a1, b1, err := FindDerivedAddress(escrowSeeds(sender, recipient, 1), owner)
	require.NoError(t, err)
	a2, b2, err := FindDerivedAddress(escrowSeeds(sender, recipient, 1), owner)
	require.NoError(t, err)
	assert.Equal(t, a1, a2)
	assert.Equal(t, b1, b2)
	assert.Len(t, a1, custody.AddressLength)

	other, _, err := FindDerivedAddress(escrowSeeds(sender, recipient, 2), owner)
	require.NoError(t, err)
	assert.NotEqual(t, a1, other)

	swapped, _, err := FindDerivedAddress(escrowSeeds(recipient, sender, 1), owner)
	require.NoError(t, err)
	assert.NotEqual(t, a1, swapped)

	otherOwner, _, err := FindDerivedAddress(escrowSeeds(sender, recipient, 1), GenPrivKeyEd25519().PublicKey())
	require.NoError(t, err)
	assert.NotEqual(t, a1, otherOwner)
}

func TestDerivedAddressIsOffCurve(t *testing.T) {
	owner := GenPrivKeyEd25519().PublicKey()
	for i := uint64(0); i < 50; i++ {
		addr, bump, err := FindDerivedAddress(escrowSeeds(owner, owner, i), owner)
		require.NoError(t, err)
		assert.False(t, isOnCurve(addr))

		again, err := CreateDerivedAddress(escrowSeeds(owner, owner, i), bump, owner)
		require.NoError(t, err)
		assert.Equal(t, addr, again)

		// every bump above the found one lands on the curve
		for b := int(bump) + 1; b <= 255; b++ {
			_, err := CreateDerivedAddress(escrowSeeds(owner, owner, i), uint8(b), owner)
			assert.True(t, ErrInvalidSeeds.Is(err), "bump %d", b)
		}
	}
}

func TestPublicKeysAreOnCurve(t *testing.T) {
	for i := 0; i < 10; i++ {
		assert.True(t, isOnCurve(GenPrivKeyEd25519().PublicKey()))
	}
}

func TestDerivationInputValidation(t *testing.T) {
	owner := GenPrivKeyEd25519().PublicKey()
	cases := map[string]struct {
		seeds   [][]byte
		owner   custody.Identity
		wantErr *errors.Error
	}{
		"too many seeds": {
			seeds:   make([][]byte, MaxSeeds),
			owner:   owner,
			wantErr: ErrInvalidSeeds,
		},
		"seed too long": {
			seeds:   [][]byte{bytes.Repeat([]byte{1}, MaxSeedLength+1)},
			owner:   owner,
			wantErr: ErrInvalidSeeds,
		},
		"missing owner": {
			seeds:   [][]byte{[]byte("escrow")},
			owner:   nil,
			wantErr: errors.ErrEmpty,
		},
		"max seeds is fine": {
			seeds: make([][]byte, MaxSeeds-1),
			owner: owner,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, _, err := FindDerivedAddress(tc.seeds, tc.owner)
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %v, got %v", tc.wantErr, err)
			}
		})
	}
}
