package ethrequest

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/comunifi/sponsor-relay/pkg/relay"
)

// Client is the subset of a node connection the relayer needs. Both
// *ethclient.Client and the simulated backend client satisfy it.
type Client interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
}

type EthService struct {
	rpc    *rpc.Client
	client Client
	ctx    context.Context
}

func (e *EthService) Context() context.Context {
	return e.ctx
}

func NewEthService(ctx context.Context, endpoint string) (*EthService, error) {
	rpc, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	client := ethclient.NewClient(rpc)

	return &EthService{rpc, client, ctx}, nil
}

func NewEthServiceWithClient(ctx context.Context, client Client) *EthService {
	return &EthService{nil, client, ctx}
}

func (e *EthService) Close() {
	if e.rpc != nil {
		e.rpc.Close()
	}
}

func (e *EthService) Backend() bind.ContractBackend {
	return e.client
}

func (e *EthService) DeployBackend() bind.DeployBackend {
	return e.client
}

func (e *EthService) ChainID() (*big.Int, error) {
	chid, err := e.client.ChainID(e.ctx)
	if err != nil {
		return nil, relay.NewChainError("chain id", err)
	}

	return chid, nil
}

func (e *EthService) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	return e.client.CodeAt(ctx, account, blockNumber)
}

func (e *EthService) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	nonce, err := e.client.PendingNonceAt(ctx, account)
	if err != nil {
		return 0, relay.NewChainError("nonce", err)
	}

	return nonce, nil
}

// WaitForTx blocks until tx is mined or ctx is done. A mined transaction that
// did not succeed is returned together with its receipt.
func (e *EthService) WaitForTx(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	rcpt, err := bind.WaitMined(ctx, e.client, tx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = relay.ErrTimeout
		}
		return nil, &relay.ChainError{Op: "wait", Hash: tx.Hash(), Err: err}
	}

	if rcpt.Status != types.ReceiptStatusSuccessful {
		return rcpt, &relay.ChainError{Op: "execute", Hash: tx.Hash(), Receipt: rcpt, Err: relay.ErrReverted}
	}

	return rcpt, nil
}
