package relay

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var (
	ErrInvalidData = errors.New("Invalid data")
	ErrReverted    = errors.New("execution reverted")
	ErrQueueFull   = errors.New("queue is full")
	ErrTimeout     = errors.New("request timeout")
)

// ValidationError describes which field of an incoming request was rejected.
// It matches ErrInvalidData with errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid data: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidData
}

// ChainError is returned when the node is unreachable, rejects a submission
// or the submitted transaction reverts.
type ChainError struct {
	Op      string
	Hash    common.Hash
	Receipt *types.Receipt
	Err     error
}

func NewChainError(op string, err error) *ChainError {
	return &ChainError{Op: op, Err: err}
}

func (e *ChainError) Error() string {
	if e.Hash != (common.Hash{}) {
		return fmt.Sprintf("chain %s %s: %v", e.Op, e.Hash.Hex(), e.Err)
	}

	return fmt.Sprintf("chain %s: %v", e.Op, e.Err)
}

func (e *ChainError) Unwrap() error {
	return e.Err
}
