package crypto

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerify(t *testing.T) {
	key := GenPrivKeyEd25519()
	msg := []byte("open escrow")

	sig, err := key.Sign(msg)
	require.NoError(t, err)
	assert.True(t, Verify(key.PublicKey(), msg, sig))
	assert.False(t, Verify(key.PublicKey(), []byte("accept escrow"), sig))
	assert.False(t, Verify(GenPrivKeyEd25519().PublicKey(), msg, sig))
	assert.False(t, Verify(key.PublicKey(), msg, sig[:10]))
	assert.False(t, Verify(nil, msg, sig))
}

func TestKeyFromSeed(t *testing.T) {
	seed := bytes.Repeat([]byte{3}, 32)
	a, err := PrivKeyEd25519FromSeed(seed)
	require.NoError(t, err)
	b, err := PrivKeyEd25519FromSeed(seed)
	require.NoError(t, err)
	assert.Equal(t, a.PublicKey(), b.PublicKey())
	assert.Equal(t, seed, a.Seed())

	_, err = PrivKeyEd25519FromSeed([]byte("short"))
	assert.True(t, ErrKey.Is(err))
}

func TestKeyJSON(t *testing.T) {
	key := GenPrivKeyEd25519()
	raw, err := json.Marshal(key)
	require.NoError(t, err)

	var back PrivateKey
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, key.PublicKey(), back.PublicKey())

	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &back))
}
