//go:build linux

package service

import "golang.org/x/sys/unix"

const pinSupported = true

// allowedCPUs returns the ids set in the calling thread's affinity mask,
// which taskset and cgroup cpusets narrow.
func allowedCPUs() ([]int, error) {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return nil, err
	}
	n := set.Count()
	ids := make([]int, 0, n)
	for cpu := 0; len(ids) < n; cpu++ {
		if set.IsSet(cpu) {
			ids = append(ids, cpu)
		}
	}
	return ids, nil
}

// pinToCPU binds the calling OS thread to a single CPU.
func pinToCPU(cpu int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	return unix.SchedSetaffinity(0, &set)
}
