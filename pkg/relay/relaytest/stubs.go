// Package relaytest provides in-memory stand-ins for the chain and the
// sponsor contract that record how they were called.
package relaytest

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/comunifi/sponsor-relay/pkg/relay"
)

var (
	ChainID        = big.NewInt(1337)
	SponsorAddress = common.HexToAddress(relay.DefaultSponsorAddress)
	SignerAddress  = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
)

type Call struct {
	Nonce uint64
	To    common.Address
	Value *big.Int
	Data  []byte
}

// Sponsor records ExecuteCall invocations. Err, when set, is returned by
// every call.
type Sponsor struct {
	mu    sync.Mutex
	calls []Call

	Err error
}

func (s *Sponsor) Address() common.Address {
	return SponsorAddress
}

func (s *Sponsor) From() common.Address {
	return SignerAddress
}

func (s *Sponsor) ExecuteCall(ctx context.Context, nonce uint64, to common.Address, value *big.Int, data []byte) (*types.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, Call{Nonce: nonce, To: to, Value: value, Data: data})

	if s.Err != nil {
		return nil, relay.NewChainError("submit", s.Err)
	}

	sponsor := SponsorAddress
	return types.NewTx(&types.DynamicFeeTx{
		ChainID: ChainID,
		Nonce:   nonce,
		To:      &sponsor,
		Gas:     100_000,
		Data:    data,
	}), nil
}

func (s *Sponsor) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Call{}, s.calls...)
}

// EVM is a chain that starts at Nonce and mines everything it is asked
// about, unless WaitErr is set.
type EVM struct {
	mu         sync.Mutex
	nonceCalls int
	waitCalls  int

	Nonce    uint64
	NonceErr error
	WaitErr  error
}

func (e *EVM) Context() context.Context {
	return context.Background()
}

func (e *EVM) Backend() bind.ContractBackend {
	return nil
}

func (e *EVM) ChainID() (*big.Int, error) {
	return ChainID, nil
}

func (e *EVM) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	return []byte{0x00}, nil
}

func (e *EVM) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nonceCalls++

	if e.NonceErr != nil {
		return 0, relay.NewChainError("nonce", e.NonceErr)
	}

	return e.Nonce, nil
}

func (e *EVM) WaitForTx(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	e.mu.Lock()
	e.waitCalls++
	waitErr := e.WaitErr
	e.mu.Unlock()

	if waitErr != nil {
		return nil, &relay.ChainError{Op: "wait", Hash: tx.Hash(), Err: waitErr}
	}

	return &types.Receipt{
		Type:        tx.Type(),
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      tx.Hash(),
		BlockNumber: big.NewInt(1),
		GasUsed:     21_000,
		Logs:        []*types.Log{},
	}, nil
}

func (e *EVM) NonceCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.nonceCalls
}

func (e *EVM) WaitCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.waitCalls
}

// Notifier is a webhook that records the errors it is given and answers
// with Err.
type Notifier struct {
	Err    error
	Errors chan error
}

func NewNotifier(err error) *Notifier {
	return &Notifier{Err: err, Errors: make(chan error, 16)}
}

func (n *Notifier) Notify(ctx context.Context, message string) error {
	return n.Err
}

func (n *Notifier) NotifyWarning(ctx context.Context, err error) error {
	return n.Err
}

func (n *Notifier) NotifyError(ctx context.Context, err error) error {
	select {
	case n.Errors <- err:
	default:
	}

	return n.Err
}
