// Package resource implements the Controller for global limits and governance.
//
// The Controller manages three resource types shared by every scan and every
// remote dataset fetch running in the process:
//
//   - Memory: reservations for large scan tables (fail-fast, non-blocking)
//   - Workers: a global cap on concurrently running fingerprint tasks
//   - IO: a token bucket for byte-range reads from remote blob stores
//
// # Architecture
//
//	┌─────────────────────────────────────────────────────────────┐
//	│                        Controller                           │
//	├─────────────────┬─────────────────┬─────────────────────────┤
//	│  Memory Limit   │  Worker Slots   │  IO Rate Limiter        │
//	│  (fail-fast)    │  (semaphore)    │  (token bucket)         │
//	├─────────────────┼─────────────────┼─────────────────────────┤
//	│  AcquireMemory  │  AcquireWorker  │  AcquireIO              │
//	│  ReleaseMemory  │  TryAcquire-    │  TryAcquireIO           │
//	│  MemoryUsage    │  Worker/Release │                         │
//	└─────────────────┴─────────────────┴─────────────────────────┘
//
// # Memory Management
//
// AcquireMemory is non-blocking and returns ErrMemoryLimitExceeded
// immediately if the reservation would exceed the limit:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30,
//	})
//
//	if err := rc.AcquireMemory(tableBytes); err != nil {
//	    return err
//	}
//	defer rc.ReleaseMemory(tableBytes)
//
// # IO Rate Limiting
//
// Remote datasets are fetched in fixed-size ranges. Each range waits for
// tokens before the request is issued:
//
//	if err := rc.AcquireIO(ctx, rangeLen); err != nil {
//	    return err
//	}
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
// This allows optional resource limiting without nil checks everywhere.
package resource
