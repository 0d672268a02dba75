// Package depositor deploys and reads the Depositor contract. Its
// constructor records the deployer as owner; the sponsor address is baked
// into the runtime code at build time.
package depositor

import (
	"context"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/core/vm"
)

const ABI = `[{"type":"function","name":"owner","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},{"type":"function","name":"sponsor","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]}]`

// ParseABI returns the parsed Depositor ABI.
func ParseABI() (abi.ABI, error) {
	return abi.JSON(strings.NewReader(ABI))
}

// Bytecode returns the creation code of a Depositor bound to sponsor.
func Bytecode(sponsor common.Address) ([]byte, error) {
	parsed, err := ParseABI()
	if err != nil {
		return nil, err
	}

	runtime := runtimeCode(parsed.Methods["owner"].ID, parsed.Methods["sponsor"].ID, sponsor)

	// owner is stored in slot 0, then the runtime is copied out of the
	// creation code and returned
	creation := []byte{
		byte(vm.CALLER), byte(vm.PUSH1), 0x00, byte(vm.SSTORE),
		byte(vm.PUSH1), byte(len(runtime)), byte(vm.PUSH1), 0x00, byte(vm.PUSH1), 0x00, byte(vm.CODECOPY),
		byte(vm.PUSH1), byte(len(runtime)), byte(vm.PUSH1), 0x00, byte(vm.RETURN),
	}

	// CODECOPY offset, patched once the init length is known
	creation[7] = byte(len(creation))

	return append(creation, runtime...), nil
}

func runtimeCode(ownerSel, sponsorSel []byte, sponsor common.Address) []byte {
	const (
		ownerDest   = 0x1e
		sponsorDest = 0x2a
	)

	code := []byte{
		// selector = calldata[0:4]
		byte(vm.PUSH1), 0x00, byte(vm.CALLDATALOAD), byte(vm.PUSH1), 0xe0, byte(vm.SHR),

		byte(vm.DUP1), byte(vm.PUSH4),
	}
	code = append(code, ownerSel...)
	code = append(code, byte(vm.EQ), byte(vm.PUSH1), ownerDest, byte(vm.JUMPI))

	code = append(code, byte(vm.DUP1), byte(vm.PUSH4))
	code = append(code, sponsorSel...)
	code = append(code, byte(vm.EQ), byte(vm.PUSH1), sponsorDest, byte(vm.JUMPI))

	// unknown selector
	code = append(code, byte(vm.PUSH1), 0x00, byte(vm.DUP1), byte(vm.REVERT))

	// owner()
	code = append(code,
		byte(vm.JUMPDEST),
		byte(vm.PUSH1), 0x00, byte(vm.SLOAD),
		byte(vm.PUSH1), 0x00, byte(vm.MSTORE),
		byte(vm.PUSH1), 0x20, byte(vm.PUSH1), 0x00, byte(vm.RETURN),
	)

	// sponsor()
	code = append(code, byte(vm.JUMPDEST), byte(vm.PUSH20))
	code = append(code, sponsor.Bytes()...)
	code = append(code,
		byte(vm.PUSH1), 0x00, byte(vm.MSTORE),
		byte(vm.PUSH1), 0x20, byte(vm.PUSH1), 0x00, byte(vm.RETURN),
	)

	return code
}

type Depositor struct {
	address  common.Address
	contract *bind.BoundContract
}

func NewDepositor(address common.Address, backend bind.ContractBackend) (*Depositor, error) {
	parsed, err := ParseABI()
	if err != nil {
		return nil, err
	}

	return &Depositor{
		address:  address,
		contract: bind.NewBoundContract(address, parsed, backend, backend, backend),
	}, nil
}

// Deploy sends the creation transaction. The contract only exists once the
// transaction is mined.
func Deploy(auth *bind.TransactOpts, backend bind.ContractBackend, sponsor common.Address) (common.Address, *types.Transaction, *Depositor, error) {
	if auth == nil {
		return common.Address{}, nil, nil, errors.New("no transactor")
	}

	parsed, err := ParseABI()
	if err != nil {
		return common.Address{}, nil, nil, err
	}

	code, err := Bytecode(sponsor)
	if err != nil {
		return common.Address{}, nil, nil, err
	}

	address, tx, contract, err := bind.DeployContract(auth, parsed, code, backend)
	if err != nil {
		return common.Address{}, nil, nil, err
	}

	return address, tx, &Depositor{address: address, contract: contract}, nil
}

func (d *Depositor) Address() common.Address {
	return d.address
}

// Owner returns the account that deployed the contract.
func (d *Depositor) Owner(ctx context.Context) (common.Address, error) {
	return d.readAddress(ctx, "owner")
}

func (d *Depositor) Sponsor(ctx context.Context) (common.Address, error) {
	return d.readAddress(ctx, "sponsor")
}

func (d *Depositor) readAddress(ctx context.Context, method string) (common.Address, error) {
	var out []interface{}
	err := d.contract.Call(&bind.CallOpts{Context: ctx}, &out, method)
	if err != nil {
		return common.Address{}, err
	}

	if len(out) == 0 {
		return common.Address{}, errors.New("empty result")
	}

	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}
