package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayanaadylkhanova/pow-miner/internal/entity"
)

func loggerSilent() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestSolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		ch      entity.Challenge
		budget  int
		timeout time.Duration
	}{
		{"one_hex_char", entity.Challenge{Payload: "abc", Requirement: "0"}, 0, 2 * time.Second},
		{"two_hex_chars", entity.Challenge{Payload: "test456", Requirement: "00"}, 0, 5 * time.Second},
		{"single_worker", entity.Challenge{Payload: "abc", Requirement: "0a"}, 1, 5 * time.Second},
		{"budget_above_units", entity.Challenge{Payload: "abc", Requirement: "f"}, 255, 2 * time.Second},
		{"empty_payload", entity.Challenge{Payload: "", Requirement: "0"}, 2, 2 * time.Second},
		{"zero_requirement", entity.Challenge{Payload: "abc", Requirement: ""}, 0, time.Second},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewParallel(loggerSilent(), DefaultNonceLength, false)
			done := make(chan entity.Candidate, 1)
			errCh := make(chan error, 1)

			go func() {
				c, err := s.Solve(context.Background(), tt.ch, tt.budget)
				if err != nil {
					errCh <- err
					return
				}
				done <- c
			}()

			select {
			case c := <-done:
				require.Len(t, c.Nonce, DefaultNonceLength)
				assert.Equal(t, Digest(tt.ch.Payload, c.Nonce), c.Digest)
				assert.True(t, strings.HasPrefix(c.Digest, tt.ch.Requirement))
				assert.NoError(t, Verify(tt.ch, c))
			case err := <-errCh:
				t.Fatalf("Solve() unexpected error: %v", err)
			case <-time.After(tt.timeout):
				t.Fatalf("timeout after %v", tt.timeout)
			}
		})
	}
}

func TestSolve_Pinned(t *testing.T) {
	t.Parallel()

	s := NewParallel(loggerSilent(), 16, true)
	ch := entity.Challenge{Payload: "pinned", Requirement: "0"}

	c, err := s.Solve(context.Background(), ch, 0)
	require.NoError(t, err)
	assert.Len(t, c.Nonce, 16)
	assert.NoError(t, Verify(ch, c))
}

func TestSolve_CancelledContext(t *testing.T) {
	t.Parallel()

	s := NewParallel(loggerSilent(), DefaultNonceLength, false)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// 2^64 expected attempts: only cancellation can end this search
	_, err := s.Solve(ctx, entity.Challenge{Payload: "abc", Requirement: strings.Repeat("0", 16)}, 2)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "err = %v", err)
}

func TestSolve_UnsatisfiableRequirement(t *testing.T) {
	t.Parallel()

	s := NewParallel(loggerSilent(), DefaultNonceLength, false)
	_, err := s.Solve(context.Background(), entity.Challenge{Payload: "abc", Requirement: "zz"}, 1)
	assert.ErrorIs(t, err, ErrUnsatisfiable)
}

func TestWorkers_Clamp(t *testing.T) {
	t.Parallel()

	p := &Parallel{log: loggerSilent(), cpus: []int{0, 1, 2, 3}, nonceLen: DefaultNonceLength}
	assert.Equal(t, 4, p.Workers(0))
	assert.Equal(t, 4, p.Workers(-1))
	assert.Equal(t, 1, p.Workers(1))
	assert.Equal(t, 3, p.Workers(3))
	assert.Equal(t, 4, p.Workers(200))
}
