package depositor

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comunifi/sponsor-relay/internal/ethrequest/ethtest"
	"github.com/comunifi/sponsor-relay/pkg/relay"
)

func deploy(t *testing.T, sponsor common.Address) (*ethtest.Chain, *Depositor) {
	chain := ethtest.NewChain(t, nil)
	client := chain.Client()

	chid, err := client.ChainID(context.Background())
	require.NoError(t, err)

	auth, err := bind.NewKeyedTransactorWithChainID(chain.Key, chid)
	require.NoError(t, err)

	_, tx, d, err := Deploy(auth, client, sponsor)
	require.NoError(t, err)

	chain.Backend.Commit()

	rcpt, err := bind.WaitMined(context.Background(), client, tx)
	require.NoError(t, err)
	require.Equal(t, types.ReceiptStatusSuccessful, rcpt.Status)
	require.Equal(t, d.Address(), rcpt.ContractAddress)

	return chain, d
}

func TestDeploy(t *testing.T) {
	ctx := context.Background()
	sponsor := common.HexToAddress(relay.DefaultSponsorAddress)

	chain, d := deploy(t, sponsor)

	owner, err := d.Owner(ctx)
	require.NoError(t, err)
	assert.Equal(t, chain.Address, owner)

	got, err := d.Sponsor(ctx)
	require.NoError(t, err)
	assert.Equal(t, sponsor, got)
	assert.NotEqual(t, owner, got)

	t.Run("unknown selector reverts", func(t *testing.T) {
		addr := d.Address()
		_, err := chain.Client().CallContract(ctx, ethereum.CallMsg{
			To:   &addr,
			Data: common.FromHex("0xdeadbeef"),
		}, nil)
		assert.Error(t, err)
	})

	t.Run("reattached binding", func(t *testing.T) {
		again, err := NewDepositor(d.Address(), chain.Client())
		require.NoError(t, err)

		owner, err := again.Owner(ctx)
		require.NoError(t, err)
		assert.Equal(t, chain.Address, owner)
	})
}

func TestBytecode(t *testing.T) {
	sponsor := common.HexToAddress(relay.DefaultSponsorAddress)

	code, err := Bytecode(sponsor)
	require.NoError(t, err)

	// 16 bytes of creation code followed by 72 bytes of runtime
	require.Len(t, code, 0x10+0x48)
	assert.Equal(t, byte(0x10), code[7])
	assert.Equal(t, sponsor.Bytes(), code[0x10+0x2c:0x10+0x40])

	_, _, _, err = Deploy(nil, nil, sponsor)
	assert.Error(t, err)
}
