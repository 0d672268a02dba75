package sponsor

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/comunifi/sponsor-relay/pkg/relay"
)

const ABI = `[{"type":"function","name":"executeCall","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"value","type":"uint256"},{"name":"data","type":"bytes"}],"outputs":[]}]`

const executeCall = "executeCall"

// Binding ties the sponsor contract to the key that pays for its calls.
// It is built once at startup and never changed.
type Binding struct {
	Address common.Address
	Key     *ecdsa.PrivateKey
}

type Sponsor struct {
	evm      relay.EVMRequester
	binding  Binding
	from     common.Address
	chainID  *big.Int
	contract *bind.BoundContract
}

// ParseABI returns the parsed sponsor contract ABI.
func ParseABI() (abi.ABI, error) {
	return abi.JSON(strings.NewReader(ABI))
}

func New(evm relay.EVMRequester, binding Binding, chainID *big.Int) (*Sponsor, error) {
	if binding.Key == nil {
		return nil, errors.New("sponsor binding has no signing key")
	}

	parsed, err := ParseABI()
	if err != nil {
		return nil, err
	}

	backend := evm.Backend()

	return &Sponsor{
		evm:      evm,
		binding:  binding,
		from:     crypto.PubkeyToAddress(binding.Key.PublicKey),
		chainID:  new(big.Int).Set(chainID),
		contract: bind.NewBoundContract(binding.Address, parsed, backend, backend, backend),
	}, nil
}

// Address is the sponsor contract address, the recipient of every relayed transaction.
func (s *Sponsor) Address() common.Address {
	return s.binding.Address
}

// From is the account that signs and pays for relayed transactions.
func (s *Sponsor) From() common.Address {
	return s.from
}

// Deployed reports whether the sponsor contract has code on chain.
func (s *Sponsor) Deployed(ctx context.Context) (bool, error) {
	code, err := s.evm.CodeAt(ctx, s.binding.Address, nil)
	if err != nil {
		return false, relay.NewChainError("code", err)
	}

	return len(code) > 0, nil
}

// ExecuteCall signs and sends executeCall(to, value, data) with the given
// nonce. Each call is a new transaction on chain.
func (s *Sponsor) ExecuteCall(ctx context.Context, nonce uint64, to common.Address, value *big.Int, data []byte) (*types.Transaction, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(s.binding.Key, s.chainID)
	if err != nil {
		return nil, err
	}

	opts.Context = ctx
	opts.Nonce = new(big.Int).SetUint64(nonce)

	if data == nil {
		data = []byte{}
	}

	tx, err := s.contract.Transact(opts, executeCall, to, value, data)
	if err != nil {
		return nil, relay.NewChainError("submit", err)
	}

	return tx, nil
}
