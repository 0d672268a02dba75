package relay

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

const Version = "v0.1.0"

type EVMRequester interface {
	Context() context.Context
	Backend() bind.ContractBackend
	ChainID() (*big.Int, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	WaitForTx(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}

// SponsorCaller submits executeCall transactions to the sponsor contract.
type SponsorCaller interface {
	Address() common.Address
	From() common.Address
	ExecuteCall(ctx context.Context, nonce uint64, to common.Address, value *big.Int, data []byte) (*types.Transaction, error)
}

type WebhookMessager interface {
	Notify(ctx context.Context, message string) error
	NotifyWarning(ctx context.Context, errorMessage error) error
	NotifyError(ctx context.Context, errorMessage error) error
}
