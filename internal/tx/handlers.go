package tx

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/comunifi/sponsor-relay/internal/metrics"
	comm "github.com/comunifi/sponsor-relay/pkg/common"
	"github.com/comunifi/sponsor-relay/pkg/relay"
)

type Enqueuer interface {
	Enqueue(message relay.Message) error
}

type Service struct {
	txq     Enqueuer
	timeout time.Duration
}

// NewService
func NewService(txq Enqueuer, timeout time.Duration) *Service {
	return &Service{
		txq,
		timeout,
	}
}

// Relay forwards {to, value, data} to the sponsor contract and responds with
// the receipt once the transaction is mined.
func (s *Service) Relay(w http.ResponseWriter, r *http.Request) {
	logger := log.WithField("request_id", middleware.GetReqID(r.Context()))
	logger.Info("got a request")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			metrics.RelayOutcomes.WithLabelValues("too_large").Inc()
			comm.Error(w, http.StatusRequestEntityTooLarge, &comm.ErrorResponse{Error: "body too large"})
			return
		}

		metrics.RelayOutcomes.WithLabelValues("invalid").Inc()
		comm.Text(w, http.StatusBadRequest, relay.ErrInvalidData.Error())
		return
	}

	req, err := relay.ParseRequest(body)
	if err != nil {
		logger.WithError(err).Warn("got invalid data")
		metrics.RelayOutcomes.WithLabelValues("invalid").Inc()
		comm.Text(w, http.StatusBadRequest, relay.ErrInvalidData.Error())
		return
	}

	message := relay.NewTxMessage(*req)
	logger = logger.WithFields(log.Fields{
		"id":    message.ID,
		"to":    req.To.Hex(),
		"value": req.Value.String(),
	})

	err = s.txq.Enqueue(*message)
	if err != nil {
		s.fail(w, logger, nil, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	data, err := message.WaitForResponse(ctx)
	if err != nil {
		s.fail(w, logger, data, err)
		return
	}

	rcpt, ok := data.(*relay.Receipt)
	if !ok {
		s.fail(w, logger, nil, errors.New("unexpected response from tx queue"))
		return
	}

	logger.WithField("hash", rcpt.Hash.Hex()).Info("relayed")
	metrics.RelayOutcomes.WithLabelValues("relayed").Inc()

	err = comm.JSON(w, http.StatusOK, rcpt)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (s *Service) fail(w http.ResponseWriter, logger *log.Entry, data any, err error) {
	resp := &comm.ErrorResponse{Error: err.Error()}

	if rcpt, ok := data.(*relay.Receipt); ok && rcpt != nil {
		resp.Receipt = rcpt
	}

	var cerr *relay.ChainError
	if errors.As(err, &cerr) && cerr.Hash != (common.Hash{}) {
		resp.Hash = cerr.Hash.Hex()
	}

	var status int
	switch {
	case errors.Is(err, relay.ErrQueueFull):
		status = http.StatusServiceUnavailable
		metrics.RelayOutcomes.WithLabelValues("queue_full").Inc()
	case errors.Is(err, relay.ErrTimeout):
		status = http.StatusGatewayTimeout
		metrics.RelayOutcomes.WithLabelValues("timeout").Inc()
	case cerr != nil:
		status = http.StatusBadGateway
		metrics.RelayOutcomes.WithLabelValues("chain_error").Inc()
	default:
		status = http.StatusInternalServerError
		metrics.RelayOutcomes.WithLabelValues("error").Inc()
	}

	logger.WithError(err).WithField("status", status).Error("relay failed")

	comm.Error(w, status, resp)
}
