// ABOUTME: Concurrent per-genre file counting for listings and the interactive picker
// ABOUTME: Fans discovery out over a worker pool and returns results in entry order

package genre

import (
	"playlist-maker/discover"
	"playlist-maker/pool"
)

// DiscoverFunc scans one genre folder
type DiscoverFunc func(genre, folder string) discover.Result

// Count is the discovery outcome for one entry
type Count struct {
	Entry   Entry
	Files   int
	Missing bool
	Skipped int
}

// CountFiles runs discoverFn for every entry on a pool of workers.
// workers <= 0 picks a count suited to I/O-bound work.
func CountFiles(entries []Entry, discoverFn DiscoverFunc, workers int) []Count {
	counts := make([]Count, len(entries))
	if len(entries) == 0 {
		return counts
	}

	if workers <= 0 {
		workers = pool.ForIO(len(entries))
	}

	p := pool.NewWorkerPool(min(workers, len(entries)))
	defer p.Close()

	for i, e := range entries {
		p.Submit(func() {
			res := discoverFn(e.Name, e.Folder)
			counts[i] = Count{
				Entry:   e,
				Files:   len(res.Files),
				Missing: res.Missing,
				Skipped: len(res.Skipped),
			}
		})
	}

	p.Wait()

	return counts
}
