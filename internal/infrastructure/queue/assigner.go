package queue

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"
)

const defaultWorkers = 4

// Assigner runs per-key jobs on a fixed set of workers using consistent
// hashing on the key, so all jobs for the same key land on the same worker
// and their writes never interleave. Used for batch transporter assignment,
// keyed by LR number.
type Assigner struct {
	workers int
	log     zerolog.Logger
}

// NewAssigner creates an Assigner with numWorkers workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewAssigner(numWorkers int, log zerolog.Logger) *Assigner {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	return &Assigner{workers: numWorkers, log: log}
}

// Run executes fn once per key and blocks until the whole batch settles.
// Keys whose job failed are returned with their error; keys reached after
// ctx is done fail with ctx.Err().
func (a *Assigner) Run(ctx context.Context, keys []string, fn func(ctx context.Context, key string) error) map[string]error {
	shards := make([][]string, a.workers)
	for _, k := range keys {
		i := a.shardIndex(k)
		shards[i] = append(shards[i], k)
	}

	var (
		mu       sync.Mutex
		failures = make(map[string]error)
		wg       sync.WaitGroup
	)
	for w, shard := range shards {
		if len(shard) == 0 {
			continue
		}
		wg.Add(1)
		go func(id int, shard []string) {
			defer wg.Done()
			for _, k := range shard {
				if err := ctx.Err(); err != nil {
					mu.Lock()
					failures[k] = err
					mu.Unlock()
					continue
				}
				if err := fn(ctx, k); err != nil {
					a.log.Debug().Err(err).Str("key", k).Int("worker_id", id).Msg("batch job failed")
					mu.Lock()
					failures[k] = err
					mu.Unlock()
				}
			}
		}(w, shard)
	}
	wg.Wait()
	return failures
}

// shardIndex maps a key deterministically to a worker index.
func (a *Assigner) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32()) % a.workers
}
