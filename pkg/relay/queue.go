package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type MessageResponse struct {
	Data any
	Err  error
}

type Message struct {
	ID         string
	CreatedAt  time.Time
	RetryCount int
	Message    any
	Response   chan MessageResponse
}

// Respond delivers the outcome of a message to whoever is waiting on it.
// Only the first response is kept, later ones are dropped.
func (m *Message) Respond(data any, err error) {
	if m.Response == nil {
		return
	}

	select {
	case m.Response <- MessageResponse{Data: data, Err: err}:
	default:
	}
}

// WaitForResponse blocks until the message is responded to or ctx is done.
func (m *Message) WaitForResponse(ctx context.Context) (any, error) {
	if m.Response == nil {
		return nil, fmt.Errorf("message %s does not expect a response", m.ID)
	}

	select {
	case resp := <-m.Response:
		return resp.Data, resp.Err
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %s", ErrTimeout, m.ID)
	}
}

type TxMessage struct {
	Request Request
}

func NewMessage(id string, message any, retryCount int, response chan MessageResponse) *Message {
	return &Message{
		ID:         id,
		CreatedAt:  time.Now(),
		RetryCount: retryCount,
		Message:    message,
		Response:   response,
	}
}

// NewTxMessage wraps a relay request. Every call gets a fresh id, identical
// requests are never deduplicated.
func NewTxMessage(req Request) *Message {
	respch := make(chan MessageResponse, 1)
	return NewMessage(fmt.Sprintf("tx:%s", uuid.NewString()), TxMessage{Request: req}, 0, respch)
}
