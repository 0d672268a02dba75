package relay

import "time"

// DefaultSponsorAddress is the sponsor contract of the local development chain.
const DefaultSponsorAddress = "0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0"

type Sponsor struct {
	Contract   string    `json:"contract"`
	PrivateKey string    `json:"private_key"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
