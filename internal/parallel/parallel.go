// Package parallel runs independent host-side jobs, such as case files, on a
// bounded number of goroutines. Kernels never use it.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls how many jobs run at once.
type Config struct {
	Workers int // Maximum concurrent jobs. Values below 2 run jobs sequentially.
}

// DefaultConfig allows one job per CPU.
func DefaultConfig() Config {
	return Config{Workers: runtime.NumCPU()}
}

// Sequential returns a configuration that runs jobs one at a time, in order.
func Sequential() Config {
	return Config{Workers: 1}
}

// For calls f(i) for every i in [0, n) and returns once all calls are done.
// Indices are handed out in increasing order. With more than one worker f
// runs concurrently and must only write state owned by index i.
func For(n int, cfg Config, f func(i int)) {
	workers := min(cfg.Workers, n)
	if workers < 2 {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				f(i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}
