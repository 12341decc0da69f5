// Package scheduler provides one-shot reminder scheduling for orders and
// outings. It owns a priority queue of (fire time, callback) pairs driven by
// a ticker, with an injectable clock for deterministic tests.
package scheduler
