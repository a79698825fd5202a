package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests swap package-level hooks and must not run in parallel.
func swapUnitHooks(t *testing.T, allowed func() ([]int, error), count func() (int, error)) {
	t.Helper()
	origAllowed, origCount := allowedCPUsFn, countCPUs
	t.Cleanup(func() {
		allowedCPUsFn = origAllowed
		countCPUs = origCount
	})
	allowedCPUsFn = allowed
	countCPUs = count
}

func TestProcessingUnits_Fallback(t *testing.T) {
	noMask := func() ([]int, error) { return nil, errors.New("no affinity") }

	cases := []struct {
		name string
		fn   func() (int, error)
		want []int
	}{
		{"reported", func() (int, error) { return 4, nil }, []int{0, 1, 2, 3}},
		{"error", func() (int, error) { return 0, errors.New("no /proc") }, []int{0}},
		{"zero", func() (int, error) { return 0, nil }, []int{0}},
	}

	for _, tc := range cases {
		swapUnitHooks(t, noMask, tc.fn)
		assert.Equal(t, tc.want, processingUnits(loggerSilent()), tc.name)
	}
}

func TestProcessingUnits_AffinityMaskWinsOverHostCount(t *testing.T) {
	swapUnitHooks(t,
		func() ([]int, error) { return []int{4, 5}, nil },
		func() (int, error) { return 64, nil },
	)

	p := NewParallel(loggerSilent(), 0, true)

	assert.Equal(t, 2, p.Units())
	assert.Equal(t, 2, p.Workers(0))
	assert.Equal(t, 2, p.Workers(64))
	assert.Equal(t, 4, p.cpuFor(0))
	assert.Equal(t, 5, p.cpuFor(1))
	assert.Equal(t, 4, p.cpuFor(2))
}

func TestProcessingUnits_EmptyMaskFallsBackToCount(t *testing.T) {
	swapUnitHooks(t,
		func() ([]int, error) { return nil, nil },
		func() (int, error) { return 2, nil },
	)

	assert.Equal(t, []int{0, 1}, processingUnits(loggerSilent()))
}

func TestAllowedCPUs_Host(t *testing.T) {
	ids, err := allowedCPUs()
	if !pinSupported {
		assert.Error(t, err)
		return
	}
	require.NoError(t, err)
	require.NotEmpty(t, ids)
	for i := 1; i < len(ids); i++ {
		assert.Less(t, ids[i-1], ids[i], "ids must be ascending")
	}
}

func TestProcessingUnits_Host(t *testing.T) {
	assert.GreaterOrEqual(t, NewParallel(loggerSilent(), 0, false).Units(), 1)
}
