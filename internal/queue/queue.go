package queue

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/comunifi/sponsor-relay/internal/metrics"
	"github.com/comunifi/sponsor-relay/pkg/relay"
)

// Processor handles dequeued messages and returns the ones that failed along
// with their errors.
type Processor interface {
	Process(messages []relay.Message) (invalid []relay.Message, errors []error)
}

// Service is a buffered queue consumed by a single worker. Messages are
// processed one at a time, in the order they were enqueued.
type Service struct {
	name       string
	maxRetries int
	ctx        context.Context

	queue chan relay.Message
	errc  chan error
	quit  chan struct{}

	closeOnce sync.Once
}

// NewService creates a queue and the channel its errors are reported on.
func NewService(name string, maxRetries, bufferSize int, ctx context.Context) (*Service, chan error) {
	if ctx == nil {
		ctx = context.Background()
	}

	errc := make(chan error, bufferSize)

	return &Service{
		name:       name,
		maxRetries: maxRetries,
		ctx:        ctx,
		queue:      make(chan relay.Message, bufferSize),
		errc:       errc,
		quit:       make(chan struct{}),
	}, errc
}

func (s *Service) Name() string {
	return s.name
}

func (s *Service) Len() int {
	return len(s.queue)
}

// Enqueue adds a message to the queue, it never blocks.
func (s *Service) Enqueue(message relay.Message) error {
	select {
	case s.queue <- message:
	default:
		err := fmt.Errorf("%s %w", s.name, relay.ErrQueueFull)
		s.report(err)
		return err
	}

	metrics.QueueDepth.WithLabelValues(s.name).Set(float64(len(s.queue)))

	if len(s.queue) >= cap(s.queue)*9/10 {
		s.report(fmt.Errorf("%s queue is almost full: %d/%d", s.name, len(s.queue), cap(s.queue)))
	}

	return nil
}

// Start processes messages until the queue is closed or its context is done.
func (s *Service) Start(p Processor) error {
	log.WithField("queue", s.name).Info("queue started")

	for {
		select {
		case <-s.quit:
			log.WithField("queue", s.name).Info("queue stopped")
			return nil
		case <-s.ctx.Done():
			return s.ctx.Err()
		case message := <-s.queue:
			metrics.QueueDepth.WithLabelValues(s.name).Set(float64(len(s.queue)))

			invalid, errs := p.Process([]relay.Message{message})
			for i, m := range invalid {
				var err error
				if i < len(errs) {
					err = errs[i]
				}

				s.retryOrFail(m, err)
			}
		}
	}
}

func (s *Service) retryOrFail(m relay.Message, err error) {
	if err == nil {
		err = fmt.Errorf("%s: message %s failed", s.name, m.ID)
	}

	if m.RetryCount < s.maxRetries {
		m.RetryCount++

		select {
		case s.queue <- m:
			return
		default:
			err = fmt.Errorf("%s %w, dropping retry of %s: %v", s.name, relay.ErrQueueFull, m.ID, err)
		}
	}

	m.Respond(nil, err)
	s.report(err)
}

// report never blocks the worker, errors are dropped when nobody listens.
func (s *Service) report(err error) {
	select {
	case s.errc <- err:
	default:
		log.WithError(err).WithField("queue", s.name).Warn("error channel full")
	}
}

func (s *Service) Close() {
	s.closeOnce.Do(func() {
		close(s.quit)
	})
}
