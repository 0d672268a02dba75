package tx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comunifi/sponsor-relay/internal/queue"
	comm "github.com/comunifi/sponsor-relay/pkg/common"
	"github.com/comunifi/sponsor-relay/pkg/relay"
	"github.com/comunifi/sponsor-relay/pkg/relay/relaytest"
)

const target = "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

func newService(t *testing.T, evm *relaytest.EVM, sp *relaytest.Sponsor) *Service {
	q, _ := queue.NewService("tx", 0, 10, nil)
	go q.Start(queue.NewTxService(context.Background(), evm, sp, nil, time.Second))
	t.Cleanup(q.Close)

	return NewService(q, 5*time.Second)
}

func post(s *Service, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/tx", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	s.Relay(rec, req)

	return rec
}

func TestRelay_InvalidData(t *testing.T) {
	evm := &relaytest.EVM{}
	sp := &relaytest.Sponsor{}
	s := newService(t, evm, sp)

	bodies := []string{
		`{"to":"","value":"1","data":"0x12"}`,
		`{"value":"1","data":"0x12"}`,
		`{"to":"` + target + `","data":"0x12"}`,
		`{"to":"` + target + `","value":0,"data":"0x12"}`,
		`{"to":"` + target + `","value":"1"}`,
		`{"to":"` + target + `","value":"1","data":""}`,
		`{}`,
		`not json`,
	}

	for _, body := range bodies {
		rec := post(s, body)

		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, "Invalid data", rec.Body.String(), body)
	}

	assert.Empty(t, sp.Calls())
	assert.Equal(t, 0, evm.NonceCalls())
	assert.Equal(t, 0, evm.WaitCalls())
}

func TestRelay_Success(t *testing.T) {
	evm := &relaytest.EVM{Nonce: 1}
	sp := &relaytest.Sponsor{}
	s := newService(t, evm, sp)

	rec := post(s, `{"to":"`+target+`","value":"10","data":"0x1234"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var rcpt relay.Receipt
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rcpt))

	assert.Equal(t, relaytest.SponsorAddress, rcpt.To)
	assert.Equal(t, relaytest.SignerAddress, rcpt.From)
	require.NotNil(t, rcpt.Receipt)
	assert.Equal(t, rcpt.Hash, rcpt.Receipt.TxHash)

	calls := sp.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, common.HexToAddress(target), calls[0].To)
	assert.Equal(t, int64(10), calls[0].Value.Int64())
	assert.Equal(t, []byte{0x12, 0x34}, calls[0].Data)
}

func TestRelay_NotIdempotent(t *testing.T) {
	evm := &relaytest.EVM{}
	sp := &relaytest.Sponsor{}
	s := newService(t, evm, sp)

	body := `{"to":"` + target + `","value":"1","data":"0x12"}`

	first := post(s, body)
	second := post(s, body)

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	assert.NotEqual(t, first.Body.String(), second.Body.String())

	calls := sp.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, uint64(0), calls[0].Nonce)
	assert.Equal(t, uint64(1), calls[1].Nonce)
}

func TestRelay_ChainFailure(t *testing.T) {
	body := `{"to":"` + target + `","value":"1","data":"0x12"}`

	t.Run("rejected submission", func(t *testing.T) {
		sp := &relaytest.Sponsor{Err: errors.New("insufficient funds for gas * price + value")}
		s := newService(t, &relaytest.EVM{}, sp)

		rec := post(s, body)
		assert.Equal(t, http.StatusBadGateway, rec.Code)

		var resp comm.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Error, "insufficient funds")
		assert.Len(t, sp.Calls(), 1)
	})

	t.Run("reverted", func(t *testing.T) {
		sp := &relaytest.Sponsor{}
		s := newService(t, &relaytest.EVM{WaitErr: relay.ErrReverted}, sp)

		rec := post(s, body)
		assert.Equal(t, http.StatusBadGateway, rec.Code)

		var resp comm.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Error, "execution reverted")
		assert.NotEmpty(t, resp.Hash)
		assert.NotNil(t, resp.Receipt)
	})

	t.Run("receipt timeout", func(t *testing.T) {
		sp := &relaytest.Sponsor{}
		s := newService(t, &relaytest.EVM{WaitErr: relay.ErrTimeout}, sp)

		rec := post(s, body)
		assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	})
}

type fullQueue struct{}

func (fullQueue) Enqueue(message relay.Message) error {
	return relay.ErrQueueFull
}

type deadQueue struct{}

func (deadQueue) Enqueue(message relay.Message) error {
	return nil
}

func TestRelay_Queue(t *testing.T) {
	body := `{"to":"` + target + `","value":"1","data":"0x12"}`

	t.Run("full", func(t *testing.T) {
		rec := post(NewService(fullQueue{}, time.Second), body)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("no response", func(t *testing.T) {
		rec := post(NewService(deadQueue{}, 50*time.Millisecond), body)
		assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	})
}
