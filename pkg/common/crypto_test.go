package common

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecrypt(t *testing.T) {
	key := "59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"

	sealed, err := Encrypt(key, "secret")
	require.NoError(t, err)
	assert.NotContains(t, sealed, key)

	opened, err := Decrypt(sealed, "secret")
	require.NoError(t, err)
	assert.Equal(t, key, opened)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := Decrypt(sealed, "other")
		assert.ErrorIs(t, err, ErrDecrypt)
	})

	t.Run("truncated value", func(t *testing.T) {
		_, err := Decrypt(sealed[:10], "secret")
		assert.Error(t, err)
	})

	t.Run("empty secret", func(t *testing.T) {
		_, err := Encrypt(key, "")
		assert.Error(t, err)
	})
}

func TestHexToPrivateKey(t *testing.T) {
	// hardhat development account #1
	want := "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"

	for _, k := range []string{
		"59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d",
		"0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d",
	} {
		pk, err := HexToPrivateKey(k)
		require.NoError(t, err)
		assert.Equal(t, want, PrivateKeyToAddress(pk).Hex())
	}

	_, err := HexToPrivateKey("0x1234")
	assert.Error(t, err)
}

func TestGenerateKey(t *testing.T) {
	k, err := GenerateKey()
	require.NoError(t, err)
	assert.Len(t, k, 32)

	_, err = HexToPrivateKey(hex.EncodeToString(k))
	assert.NoError(t, err)
}
