package service

import (
	"log/slog"

	"github.com/shirou/gopsutil/v3/cpu"
)

var (
	allowedCPUsFn = allowedCPUs
	countCPUs     = func() (int, error) { return cpu.Counts(true) }
)

// processingUnits lists the CPU ids the process may run on. The affinity
// mask comes first, the host's logical count is the fallback, and an
// unreadable count degrades to one unit.
func processingUnits(log *slog.Logger) []int {
	ids, err := allowedCPUsFn()
	if err == nil && len(ids) > 0 {
		return ids
	}
	if err != nil {
		log.Debug("cpu affinity unavailable, using host count", "err", err)
	}

	n, err := countCPUs()
	if err != nil {
		log.Warn("cannot enumerate processing units, using 1", "err", err)
		return []int{0}
	}
	if n < 1 {
		log.Warn("no processing units reported, using 1", "reported", n)
		return []int{0}
	}
	ids = make([]int, n)
	for i := range ids {
		ids[i] = i
	}
	return ids
}
