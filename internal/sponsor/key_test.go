package sponsor

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	comm "github.com/comunifi/sponsor-relay/pkg/common"
	"github.com/comunifi/sponsor-relay/pkg/relay"
)

type memStore map[string]string

func (m memStore) GetSponsor(contract string) (*relay.Sponsor, error) {
	pk, ok := m[contract]
	if !ok {
		return nil, errors.New("sponsor not found")
	}

	return &relay.Sponsor{Contract: contract, PrivateKey: pk}, nil
}

func TestParseKey(t *testing.T) {
	raw, err := comm.GenerateKey()
	require.NoError(t, err)

	hexKey := hex.EncodeToString(raw)

	want, err := crypto.ToECDSA(raw)
	require.NoError(t, err)

	t.Run("plain", func(t *testing.T) {
		key, err := ParseKey(hexKey, "")
		require.NoError(t, err)
		assert.Equal(t, crypto.PubkeyToAddress(want.PublicKey), crypto.PubkeyToAddress(key.PublicKey))

		key, err = ParseKey("0x"+hexKey, "")
		require.NoError(t, err)
		assert.Equal(t, crypto.PubkeyToAddress(want.PublicKey), crypto.PubkeyToAddress(key.PublicKey))
	})

	t.Run("encrypted", func(t *testing.T) {
		sealed, err := comm.Encrypt(hexKey, "secret")
		require.NoError(t, err)

		key, err := ParseKey(sealed, "secret")
		require.NoError(t, err)
		assert.Equal(t, crypto.PubkeyToAddress(want.PublicKey), crypto.PubkeyToAddress(key.PublicKey))

		_, err = ParseKey(sealed, "wrong")
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseKey("0x1234", "")
		assert.Error(t, err)
	})
}

func TestLoadKey(t *testing.T) {
	raw, err := comm.GenerateKey()
	require.NoError(t, err)

	contract := common.HexToAddress(relay.DefaultSponsorAddress)
	store := memStore{contract.Hex(): hex.EncodeToString(raw)}

	key, err := LoadKey(store, contract)
	require.NoError(t, err)
	assert.Equal(t, raw, crypto.FromECDSA(key))

	_, err = LoadKey(store, common.HexToAddress("0x01"))
	assert.Error(t, err)
}
