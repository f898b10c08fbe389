package rst2html

import "runtime"

// Worker count bounds for batch conversion.
const (
	// MinWorkers ensures at least one worker is available.
	MinWorkers = 1

	// MaxWorkers caps goroutines converting files at once.
	MaxWorkers = 32
)

// ResolveWorkers determines the number of batch workers.
// Priority: explicit value > GOMAXPROCS (adjusted by automaxprocs for containers).
func ResolveWorkers(workers int) int {
	n := workers
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	if n < MinWorkers {
		return MinWorkers
	}
	if n > MaxWorkers {
		return MaxWorkers
	}
	return n
}
