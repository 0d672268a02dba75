// Package ethtest runs an in-process chain for tests.
package ethtest

import (
	"crypto/ecdsa"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/stretchr/testify/require"
)

var (
	// AcceptCode is runtime code that succeeds on every call.
	AcceptCode = []byte{byte(vm.STOP)}

	// RevertCode is runtime code that reverts every call.
	RevertCode = []byte{byte(vm.PUSH1), 0x00, byte(vm.PUSH1), 0x00, byte(vm.REVERT)}
)

// WithCode places code at addr in genesis.
func WithCode(addr common.Address, code []byte) types.GenesisAlloc {
	return types.GenesisAlloc{
		addr: {Code: code, Balance: common.Big0},
	}
}

type Chain struct {
	Backend *simulated.Backend
	Key     *ecdsa.PrivateKey
	Address common.Address
}

// NewChain starts a simulated chain with a funded account. alloc may add
// more genesis accounts.
func NewChain(t testing.TB, alloc types.GenesisAlloc) *Chain {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	addr := crypto.PubkeyToAddress(key.PublicKey)

	if alloc == nil {
		alloc = types.GenesisAlloc{}
	}
	alloc[addr] = types.Account{Balance: new(big.Int).Mul(big.NewInt(1e18), big.NewInt(1000))}

	b := simulated.NewBackend(alloc)
	t.Cleanup(func() {
		b.Close()
	})

	return &Chain{Backend: b, Key: key, Address: addr}
}

func (c *Chain) Client() simulated.Client {
	return c.Backend.Client()
}

// AutoCommit mines a block every interval until the test ends.
func (c *Chain) AutoCommit(t testing.TB, interval time.Duration) {
	done := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				c.Backend.Commit()
			}
		}
	}()

	t.Cleanup(func() {
		close(done)
		wg.Wait()
	})
}
