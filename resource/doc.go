// Package resource governs the shared budgets of quantile computations.
//
// A Controller bounds three things across every call that shares it:
//
//   - Scratch memory: bytes of worker-private lane buffers (fail-fast)
//   - Workers: goroutines evaluating lanes at the same time (blocking)
//   - IO: bytes per second read or written by the array codec (token bucket)
//
// Usage:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes:   64 << 20,
//	    MaxWorkers:         8,
//	    IOLimitBytesPerSec: 32 << 20,
//	})
//
//	release, err := rc.ReserveScratch(n * 8)
//	if err != nil {
//	    return err // ErrMemoryLimitExceeded
//	}
//	defer release()
//
// All methods are safe for concurrent use. A nil *Controller imposes no
// limits, so callers never need to guard against it.
package resource
