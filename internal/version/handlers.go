package version

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"

	comm "github.com/comunifi/sponsor-relay/pkg/common"
	"github.com/comunifi/sponsor-relay/pkg/relay"
)

// Info describes which chain and sponsor this relayer submits to.
type Info struct {
	ChainID *big.Int
	Sponsor common.Address
	Signer  common.Address
}

type Service struct {
	info Info
}

func NewService(info Info) *Service {
	return &Service{info: info}
}

type response struct {
	Version string         `json:"version"`
	ChainID string         `json:"chain_id,omitempty"`
	Sponsor string `json:"sponsor"`
	Signer  string `json:"signer"`
}

// Current returns the current version of the API
func (s *Service) Current(w http.ResponseWriter, r *http.Request) {
	resp := &response{
		Version: relay.Version,
		Sponsor: s.info.Sponsor.Hex(),
		Signer:  s.info.Signer.Hex(),
	}

	if s.info.ChainID != nil {
		resp.ChainID = s.info.ChainID.String()
	}

	err := comm.Body(w, resp, nil)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}
