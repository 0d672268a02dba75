package api

import (
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/comunifi/sponsor-relay/internal/tx"
	"github.com/comunifi/sponsor-relay/internal/version"
)

type Server struct {
	info        version.Info
	txq         tx.Enqueuer
	timeout     time.Duration
	maxBodySize int64
}

func NewServer(info version.Info, txq tx.Enqueuer, timeout time.Duration, maxBodySize int64) *Server {
	return &Server{info: info, txq: txq, timeout: timeout, maxBodySize: maxBodySize}
}

func (s *Server) Start(port int, handler http.Handler) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%v", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Infof("API server starting on :%v", port)
	return srv.ListenAndServe()
}
