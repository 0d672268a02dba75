package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	log "github.com/sirupsen/logrus"

	"github.com/comunifi/sponsor-relay/internal/metrics"
	"github.com/comunifi/sponsor-relay/pkg/relay"
)

// TxService sends relay requests through the sponsor contract. It must be
// driven by a single worker: it owns the signer's nonce.
type TxService struct {
	ctx            context.Context
	evm            relay.EVMRequester
	sponsor        relay.SponsorCaller
	notify         relay.WebhookMessager
	receiptTimeout time.Duration

	// next nonce to use, nil when it has to be read from the node
	nonce *uint64
}

func NewTxService(ctx context.Context, evm relay.EVMRequester, sponsor relay.SponsorCaller, notify relay.WebhookMessager, receiptTimeout time.Duration) *TxService {
	return &TxService{
		ctx:            ctx,
		evm:            evm,
		sponsor:        sponsor,
		notify:         notify,
		receiptTimeout: receiptTimeout,
	}
}

// Process submits each message once. Accepted transactions are awaited in the
// background and the message is responded to with the receipt.
func (s *TxService) Process(messages []relay.Message) (invalid []relay.Message, errors []error) {
	invalid = []relay.Message{}
	errors = []error{}

	for _, message := range messages {
		txm, ok := message.Message.(relay.TxMessage)
		if !ok {
			invalid = append(invalid, message)
			errors = append(errors, fmt.Errorf("invalid tx message %s", message.ID))
			continue
		}

		tx, err := s.submit(message.ID, txm.Request)
		if err != nil {
			invalid = append(invalid, message)
			errors = append(errors, err)
			continue
		}

		go s.waitForReceipt(message, tx)
	}

	return invalid, errors
}

func (s *TxService) nextNonce(ctx context.Context) (uint64, error) {
	if s.nonce != nil {
		return *s.nonce, nil
	}

	nonce, err := s.evm.PendingNonceAt(ctx, s.sponsor.From())
	if err != nil {
		return 0, err
	}

	s.nonce = &nonce

	return nonce, nil
}

func (s *TxService) submit(id string, req relay.Request) (*types.Transaction, error) {
	ctx, cancel := context.WithTimeout(s.ctx, s.receiptTimeout)
	defer cancel()

	nonce, err := s.nextNonce(ctx)
	if err != nil {
		metrics.Submissions.WithLabelValues("failed").Inc()
		return nil, err
	}

	logger := log.WithFields(log.Fields{
		"id":    id,
		"to":    req.To.Hex(),
		"value": req.Value.String(),
		"nonce": nonce,
	})

	tx, err := s.sponsor.ExecuteCall(ctx, nonce, req.To, req.Value, req.Data)
	if err != nil {
		// the node may or may not have seen the nonce, read it again next time
		s.nonce = nil

		metrics.Submissions.WithLabelValues("failed").Inc()
		logger.WithError(err).Error("submission failed")
		return nil, err
	}

	next := nonce + 1
	s.nonce = &next

	metrics.Submissions.WithLabelValues("sent").Inc()
	logger.WithField("hash", tx.Hash().Hex()).Info("transaction sent")

	return tx, nil
}

func (s *TxService) waitForReceipt(message relay.Message, tx *types.Transaction) {
	ctx, cancel := context.WithTimeout(s.ctx, s.receiptTimeout)
	defer cancel()

	start := time.Now()

	rcpt, err := s.evm.WaitForTx(ctx, tx)

	metrics.ReceiptLatency.Observe(time.Since(start).Seconds())

	logger := log.WithFields(log.Fields{
		"id":   message.ID,
		"hash": tx.Hash().Hex(),
	})

	message.Respond(relay.NewReceipt(s.sponsor.From(), tx, rcpt), err)

	if err != nil {
		logger.WithError(err).Error("transaction failed")

		if s.notify != nil {
			if nerr := s.notify.NotifyError(s.ctx, err); nerr != nil {
				logger.WithError(nerr).Debug("webhook notification failed")
			}
		}
		return
	}

	logger.WithField("block", rcpt.BlockNumber).Info("transaction mined")
}
