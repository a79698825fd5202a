package entity

import "time"

// Snapshot is the part of a mining session that survives a restart.
type Snapshot struct {
	Cookies    string        `json:"cookies"`
	PowID      string        `json:"pow_id,omitempty"`
	Cycles     uint64        `json:"cycles"`
	TotalSolve time.Duration `json:"total_solve"`
	SavedAt    time.Time     `json:"saved_at"`
}

type Stats struct {
	Cycles          uint64    `json:"cycles"`
	TotalSolveSecs  float64   `json:"total_solve_secs"`
	AvgSolveSecs    float64   `json:"avg_solve_secs"`
	HasPowID        bool      `json:"has_pow_id"`
	LastClaimAt     time.Time `json:"last_claim_at,omitzero"`
	TransportErrors uint64    `json:"transport_errors"`
	ProtocolErrors  uint64    `json:"protocol_errors"`
	MalformedErrors uint64    `json:"malformed_errors"`
}
