// Package scheduler provides a bounded-concurrency task admission primitive
// with strict FIFO dispatch, pre-dispatch cancellation, and deterministic
// teardown. It is deliberately generic: callers translate its sentinel errors
// into their own taxonomy.
package scheduler
