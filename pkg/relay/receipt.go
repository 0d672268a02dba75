package relay

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// Receipt is what a client gets back for a relayed request: the submitted
// transaction as seen from the sponsor and the receipt the chain produced.
type Receipt struct {
	Hash    common.Hash    `json:"hash"`
	From    common.Address `json:"from"`
	To      common.Address `json:"to"`
	Nonce   hexutil.Uint64 `json:"nonce"`
	Value   *hexutil.Big   `json:"value"`
	Data    hexutil.Bytes  `json:"data"`
	ChainID *hexutil.Big   `json:"chainId"`
	Receipt *types.Receipt `json:"receipt,omitempty"`
}

func NewReceipt(from common.Address, tx *types.Transaction, rcpt *types.Receipt) *Receipt {
	r := &Receipt{
		Hash:    tx.Hash(),
		From:    from,
		Nonce:   hexutil.Uint64(tx.Nonce()),
		Value:   (*hexutil.Big)(new(big.Int).Set(tx.Value())),
		Data:    tx.Data(),
		ChainID: (*hexutil.Big)(tx.ChainId()),
		Receipt: rcpt,
	}

	if tx.To() != nil {
		r.To = *tx.To()
	}

	return r
}
