package service

import (
	mrand "math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNonceSource_LengthAndAlphabet(t *testing.T) {
	t.Parallel()

	for _, n := range []int{1, 8, DefaultNonceLength, 128} {
		src := NewNonceSource(n)
		for i := 0; i < 200; i++ {
			nonce := src.Next()
			require.Len(t, nonce, n)
			for _, c := range nonce {
				assert.True(t, strings.ContainsRune(Alphabet, c), "unexpected char %q in %q", c, nonce)
			}
		}
	}
}

func TestNonceSource_DefaultLength(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultNonceLength, NewNonceSource(0).Len())
	assert.Len(t, NewNonceSource(-3).Next(), DefaultNonceLength)
}

func TestNonceSource_DeterministicWithSeed(t *testing.T) {
	t.Parallel()

	a := NewNonceSourceWith(16, mrand.New(mrand.NewPCG(123, 456)))
	b := NewNonceSourceWith(16, mrand.New(mrand.NewPCG(123, 456)))

	for i := 0; i < 20; i++ {
		require.Equal(t, a.Next(), b.Next(), "determinism broken at step %d", i)
	}
}

func TestNonceSource_ConsecutiveMayDiffer(t *testing.T) {
	t.Parallel()

	src := NewNonceSource(DefaultNonceLength)
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		seen[src.Next()] = struct{}{}
	}
	// 62^48 space: collisions here would mean the source is stuck
	assert.Greater(t, len(seen), 1)
}
