package session

import (
	"context"
	"net/http"

	"github.com/dayanaadylkhanova/pow-miner/internal/entity"
)

//go:generate mockgen -source=interfaces.go -destination=./session_mock.go -package=session

type Transport interface {
	Send(ctx context.Context, req entity.Request) (entity.Response, error)
}

// HeaderSource returns a fresh header set per call; the session only adds
// its own cookies to it.
type HeaderSource interface {
	Headers() http.Header
}

type Solver interface {
	Solve(ctx context.Context, ch entity.Challenge, workers int) (entity.Candidate, error)
}

type StateStore interface {
	Load(ctx context.Context) (entity.Snapshot, bool, error)
	Save(ctx context.Context, snap entity.Snapshot) error
}
