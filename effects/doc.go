// Package effects provides the context-scoped effect handlers used across collatz_ive_go.
//
// An effect is any work that leaves the pure computation: logging, spawning
// goroutines, or handing a request to a pool of workers. The computation asks
// for the effect through the context; whoever set up the context decides how it
// is carried out.
//
// # How does it work?
//
// Handlers are registered via `WithXxxEffectHandler(ctx)`, which returns a derived
// context and an end function. Code running under that context performs effects
// through `PerformResumableEffect` (request/response) or `FireAndForgetEffect`.
// Delegation is type-safe, scope-bound, and never implicit.
//
//   - Fire-and-forget handlers run one worker and keep serving until their end
//     function is called, even after the parent context is cancelled.
//   - Resumable partitionable handlers run NumWorkers workers. A payload is routed
//     by hashing its PartitionKey(), and its result comes back on a channel.
//
// Ending a scope cancels it, waits for the workers to drain, and then runs the
// optional teardown.
//
// Subpackages:
//   - log: zap-backed logging effect
//   - concurrency: supervised goroutine spawning
//
// Example:
//
//	func run(ctx context.Context) {
//	    ctx, end := log.WithZapEffectHandler(ctx, 16, zap.NewExample())
//	    defer end()
//
//	    log.Effect(ctx, log.LogInfo, "started", nil)
//	}
package effects
