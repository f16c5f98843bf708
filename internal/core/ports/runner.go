package ports

import "context"

// BatchRunner executes one job per key across a worker pool while keeping
// all jobs for the same key on the same worker, so per-key writes never
// interleave. It returns the errors of the keys that failed.
type BatchRunner interface {
	Run(ctx context.Context, keys []string, fn func(ctx context.Context, key string) error) map[string]error
}
