package sponsor

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	comm "github.com/comunifi/sponsor-relay/pkg/common"
	"github.com/comunifi/sponsor-relay/pkg/relay"
)

type KeyStore interface {
	GetSponsor(contract string) (*relay.Sponsor, error)
}

// ParseKey reads a hex private key. When secret is set the value is first
// opened as a secretbox.
func ParseKey(value, secret string) (*ecdsa.PrivateKey, error) {
	if secret != "" {
		opened, err := comm.Decrypt(value, secret)
		if err != nil {
			return nil, fmt.Errorf("sponsor key: %w", err)
		}

		value = opened
	}

	key, err := comm.HexToPrivateKey(value)
	if err != nil {
		return nil, fmt.Errorf("sponsor key: %w", err)
	}

	return key, nil
}

// LoadKey reads the signing key stored for contract. The store decrypts it.
func LoadKey(store KeyStore, contract common.Address) (*ecdsa.PrivateKey, error) {
	s, err := store.GetSponsor(contract.Hex())
	if err != nil {
		return nil, err
	}

	return ParseKey(s.PrivateKey, "")
}
