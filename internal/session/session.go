package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dayanaadylkhanova/pow-miner/internal/entity"
	"github.com/dayanaadylkhanova/pow-miner/internal/service"
)

type Options struct {
	// BaseURL overrides Variant.BaseURL when set.
	BaseURL string
	Variant Variant
	Workers int

	// Cookies seeds the session cookie state.
	Cookies    string
	CFResponse string

	FetchBackoff time.Duration
	ClaimBackoff time.Duration
	CyclePause   time.Duration

	// Store is optional.
	Store StateStore
}

func DefaultOptions() Options {
	return Options{
		Variant:      V2(),
		FetchBackoff: time.Second,
		ClaimBackoff: 300 * time.Millisecond,
		CyclePause:   100 * time.Millisecond,
	}
}

// State is owned by the goroutine running the session.
type State struct {
	Cookies    string
	PowID      string
	TotalSolve time.Duration
	Cycles     uint64
}

// Session drives the fetch/solve/claim cycle. Run, Cycle, Records and
// Account must not be called concurrently; Stats may be called from any
// goroutine.
type Session struct {
	log     *slog.Logger
	tr      Transport
	headers HeaderSource
	solver  Solver
	opts    Options
	baseURL string

	state State

	statsMu sync.RWMutex
	stats   entity.Stats
}

func New(log *slog.Logger, tr Transport, headers HeaderSource, solver Solver, opts Options) *Session {
	base := opts.BaseURL
	if base == "" {
		base = opts.Variant.BaseURL
	}
	return &Session{
		log:     log,
		tr:      tr,
		headers: headers,
		solver:  solver,
		opts:    opts,
		baseURL: strings.TrimRight(base, "/"),
		state:   State{Cookies: opts.Cookies},
	}
}

// State returns a copy of the current session state.
func (s *Session) State() State { return s.state }

func (s *Session) Stats() entity.Stats {
	s.statsMu.RLock()
	defer s.statsMu.RUnlock()
	st := s.stats
	if st.Cycles > 0 {
		st.AvgSolveSecs = st.TotalSolveSecs / float64(st.Cycles)
	}
	return st
}

// Run mines until ctx is cancelled. It returns nil on cancellation; no
// remote failure ends it.
func (s *Session) Run(ctx context.Context) error {
	s.restore(ctx)

	if s.opts.Variant.SeedFromRecords {
		ids, err := s.Records(ctx)
		switch {
		case ctx.Err() != nil:
			return nil
		case err != nil:
			s.log.Warn("pow records unavailable, starting unchained", "err", err)
		case len(ids) > 0:
			s.state.PowID = ids[0]
		}
	}
	s.publish(false)

	s.log.Info("mining started",
		"variant", s.opts.Variant.Name,
		"base_url", s.baseURL,
		"workers", s.opts.Workers,
		"pow_id", s.state.PowID,
	)

	for {
		if err := s.Cycle(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			return err
		}
		if err := sleep(ctx, s.opts.CyclePause); err != nil {
			break
		}
	}

	s.log.Info("mining stopped", "cycles", s.state.Cycles)
	return nil
}

// Cycle performs one fetch/solve/claim round. It only returns an error
// when ctx is done.
func (s *Session) Cycle(ctx context.Context) error {
	ch, err := s.fetchChallenge(ctx)
	if err != nil {
		return err
	}
	s.log.Info("get mission", "payload", ch.Payload, "require", ch.Requirement)

	start := time.Now()
	c, err := s.solver.Solve(ctx, ch, s.opts.Workers)
	elapsed := time.Since(start)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// the challenge is dropped and a fresh one fetched
		s.record("solve", fmt.Errorf("%w: %v", ErrMalformed, err))
		return sleep(ctx, s.opts.FetchBackoff)
	}
	if err := service.Verify(ch, c); err != nil {
		s.record("solve", fmt.Errorf("%w: %w", ErrMalformed, err))
		return sleep(ctx, s.opts.FetchBackoff)
	}

	if err := s.claim(ctx, c); err != nil {
		return err
	}

	s.state.Cycles++
	s.state.TotalSolve += elapsed
	s.publish(true)
	s.persist(ctx)

	s.log.Info("claim accepted",
		"claims", s.state.Cycles,
		"avg_solve_secs", s.state.TotalSolve.Seconds()/float64(s.state.Cycles),
		"solve_secs", elapsed.Seconds(),
	)
	return nil
}

// Records fetches the pow_ids of previous claims, newest first.
func (s *Session) Records(ctx context.Context) ([]string, error) {
	resp, err := s.send(ctx, http.MethodGet, s.opts.Variant.RecordsPath, nil)
	if err := checkStatus(resp, err); err != nil {
		return nil, fmt.Errorf("pow records: %w", err)
	}
	s.updateCookies(resp.Header)
	if err != nil {
		return nil, err
	}
	return decodePowIDs(resp.Body)
}

// Account returns the raw account body.
func (s *Session) Account(ctx context.Context) ([]byte, error) {
	resp, err := s.send(ctx, http.MethodGet, s.opts.Variant.AccountPath, nil)
	if err := checkStatus(resp, err); err != nil {
		return nil, fmt.Errorf("account: %w", err)
	}
	s.updateCookies(resp.Header)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (s *Session) fetchChallenge(ctx context.Context) (entity.Challenge, error) {
	body := s.opts.Variant.missionBody(s.opts.CFResponse)
	for {
		ch, err := s.tryFetch(ctx, body)
		if err == nil {
			return ch, nil
		}
		if ctx.Err() != nil {
			return entity.Challenge{}, ctx.Err()
		}
		s.record("get mission", err)
		if err := sleep(ctx, s.opts.FetchBackoff); err != nil {
			return entity.Challenge{}, err
		}
	}
}

func (s *Session) tryFetch(ctx context.Context, body []byte) (entity.Challenge, error) {
	resp, err := s.send(ctx, http.MethodPost, s.opts.Variant.MissionPath, body)
	if err := checkStatus(resp, err); err != nil {
		return entity.Challenge{}, err
	}
	s.updateCookies(resp.Header)
	if err != nil {
		return entity.Challenge{}, err
	}

	ch, powID, err := s.opts.Variant.decodeMission(resp.Body)
	if err != nil {
		return entity.Challenge{}, err
	}
	if powID != "" && s.opts.Variant.ChainPowID {
		s.state.PowID = powID
	}
	return ch, nil
}

func (s *Session) claim(ctx context.Context, c entity.Candidate) error {
	for {
		s.log.Info("submit claim", "nonce", c.Nonce, "hash", c.Digest, "pow_id", s.state.PowID)
		err := s.tryClaim(ctx, c)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.record("claim", err)
		if err := sleep(ctx, s.opts.ClaimBackoff); err != nil {
			return err
		}
	}
}

func (s *Session) tryClaim(ctx context.Context, c entity.Candidate) error {
	body := s.opts.Variant.claimBody(c, s.state.PowID)
	resp, err := s.send(ctx, http.MethodPost, s.opts.Variant.ClaimPath, body)
	if err := checkStatus(resp, err); err != nil {
		return err
	}
	s.updateCookies(resp.Header)

	// The claim is accepted at this point; an unreadable body must not
	// trigger a resubmission.
	if err != nil {
		s.log.Warn("claim accepted without readable body", "err", err)
		return nil
	}
	if !s.opts.Variant.ChainPowID {
		return nil
	}
	ids, err := decodePowIDs(resp.Body)
	if err != nil {
		s.log.Warn("claim accepted without readable pow_id", "err", err)
		return nil
	}
	if len(ids) > 0 {
		s.state.PowID = ids[0]
	}
	return nil
}

func (s *Session) send(ctx context.Context, method, path string, body []byte) (entity.Response, error) {
	h := s.headers.Headers()
	if h == nil {
		h = make(http.Header)
	}
	mergeCookie(h, s.state.Cookies)

	resp, err := s.tr.Send(ctx, entity.Request{
		Method: method,
		URL:    s.baseURL + path,
		Header: h,
		Body:   body,
	})
	if err != nil {
		if errors.Is(err, entity.ErrBodyUnreadable) && resp.Status != 0 {
			return resp, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		return entity.Response{}, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return resp, nil
}

// checkStatus reports a failed exchange or a non-200 answer. A 200 whose
// body was unreadable passes; the caller decides what that means.
func checkStatus(resp entity.Response, err error) error {
	switch {
	case err != nil && resp.Status == 0:
		return err
	case resp.Status != http.StatusOK:
		return fmt.Errorf("%w: status %d: %s", ErrProtocol, resp.Status, snippet(resp.Body))
	}
	return nil
}

// updateCookies replaces the cookie state when the response sets any.
func (s *Session) updateCookies(h http.Header) {
	values := h.Values("Set-Cookie")
	if len(values) == 0 {
		return
	}
	if ck := ParseSessionCookies(values); ck != "" {
		s.state.Cookies = ck
	}
}

func (s *Session) record(op string, err error) {
	s.statsMu.Lock()
	switch {
	case errors.Is(err, ErrTransport):
		s.stats.TransportErrors++
	case errors.Is(err, ErrMalformed):
		s.stats.MalformedErrors++
	default:
		s.stats.ProtocolErrors++
	}
	s.statsMu.Unlock()

	switch {
	case errors.Is(err, ErrTransport):
		s.log.Error("request failed", "op", op, "err", err)
	case errors.Is(err, ErrMalformed):
		s.log.Error("unexpected response body", "op", op, "err", err)
	default:
		s.log.Error("request rejected", "op", op, "err", err)
	}
}

func (s *Session) publish(claimed bool) {
	s.statsMu.Lock()
	s.stats.Cycles = s.state.Cycles
	s.stats.TotalSolveSecs = s.state.TotalSolve.Seconds()
	s.stats.HasPowID = s.state.PowID != ""
	if claimed {
		s.stats.LastClaimAt = time.Now()
	}
	s.statsMu.Unlock()
}

func (s *Session) restore(ctx context.Context) {
	if s.opts.Store == nil {
		return
	}
	snap, ok, err := s.opts.Store.Load(ctx)
	if err != nil {
		s.log.Warn("state load failed", "err", err)
		return
	}
	if !ok {
		return
	}
	if snap.Cookies != "" {
		s.state.Cookies = snap.Cookies
	}
	s.state.PowID = snap.PowID
	s.state.Cycles = snap.Cycles
	s.state.TotalSolve = snap.TotalSolve
	s.log.Info("state restored", "cycles", snap.Cycles, "saved_at", snap.SavedAt)
}

func (s *Session) persist(ctx context.Context) {
	if s.opts.Store == nil {
		return
	}
	err := s.opts.Store.Save(ctx, entity.Snapshot{
		Cookies:    s.state.Cookies,
		PowID:      s.state.PowID,
		Cycles:     s.state.Cycles,
		TotalSolve: s.state.TotalSolve,
		SavedAt:    time.Now(),
	})
	if err != nil {
		s.log.Warn("state save failed", "err", err)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func snippet(b []byte) string {
	const limit = 256
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}
