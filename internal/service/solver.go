package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dayanaadylkhanova/pow-miner/internal/entity"
)

// ctxCheckEvery must stay a power of two.
const ctxCheckEvery = 4096

// Parallel searches for a nonce with one independent random searcher per
// processing unit. The first worker to hit publishes into a shared slot and
// the others stop on their next iteration.
type Parallel struct {
	log      *slog.Logger
	cpus     []int
	nonceLen int
	pin      bool
}

func NewParallel(log *slog.Logger, nonceLen int, pin bool) *Parallel {
	if nonceLen <= 0 {
		nonceLen = DefaultNonceLength
	}
	return &Parallel{
		log:      log,
		cpus:     processingUnits(log),
		nonceLen: nonceLen,
		pin:      pin && pinSupported,
	}
}

func (p *Parallel) Units() int { return len(p.cpus) }

// Workers clamps a budget to the available units; budget <= 0 means all.
func (p *Parallel) Workers(budget int) int {
	if budget <= 0 || budget > len(p.cpus) {
		return len(p.cpus)
	}
	return budget
}

// cpuFor maps a worker onto the allowed CPUs in mask order.
func (p *Parallel) cpuFor(worker int) int {
	return p.cpus[worker%len(p.cpus)]
}

// Solve blocks until some worker finds a candidate or ctx is done.
func (p *Parallel) Solve(ctx context.Context, ch entity.Challenge, budget int) (entity.Candidate, error) {
	if err := checkRequirement(ch.Requirement); err != nil {
		return entity.Candidate{}, err
	}

	n := p.Workers(budget)
	start := time.Now()

	var (
		slot atomic.Pointer[entity.Candidate]
		wg   sync.WaitGroup
	)
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(id int) {
			defer wg.Done()
			p.search(ctx, id, ch, &slot)
		}(i)
	}
	wg.Wait()

	if c := slot.Load(); c != nil {
		p.log.Debug("hash found",
			"workers", n,
			"elapsed", time.Since(start).String(),
			"hash", c.Digest,
		)
		return *c, nil
	}
	return entity.Candidate{}, ctx.Err()
}

func (p *Parallel) search(ctx context.Context, id int, ch entity.Challenge, slot *atomic.Pointer[entity.Candidate]) {
	runtime.LockOSThread()
	pinned := false
	if p.pin {
		if err := pinToCPU(p.cpuFor(id)); err != nil {
			p.log.Debug("worker pin failed", "worker", id, "cpu", p.cpuFor(id), "err", err)
		} else {
			pinned = true
		}
	}
	// A pinned thread exits with the goroutine so its affinity mask never
	// reaches the scheduler's thread pool.
	if !pinned {
		defer runtime.UnlockOSThread()
	}

	src := NewNonceSource(p.nonceLen)
	msg := make([]byte, len(ch.Payload)+p.nonceLen)
	copy(msg, ch.Payload)
	nonce := msg[len(ch.Payload):]
	req := []byte(ch.Requirement)

	var digest [sha256.Size * 2]byte
	done := ctx.Done()

	for i := 0; ; i++ {
		if slot.Load() != nil {
			return
		}
		if i&(ctxCheckEvery-1) == 0 {
			select {
			case <-done:
				return
			default:
			}
		}

		src.Fill(nonce)
		sum := sha256.Sum256(msg)
		hex.Encode(digest[:], sum[:])
		if bytes.HasPrefix(digest[:], req) {
			slot.CompareAndSwap(nil, &entity.Candidate{
				Nonce:  string(nonce),
				Digest: string(digest[:]),
			})
			return
		}
	}
}
