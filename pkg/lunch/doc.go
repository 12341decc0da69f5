// Package lunch is the in-memory store of today's open delivery orders and
// walk-out outings. Contributions from any user merge into the matching
// entity, and every entity gets exactly one one-shot reminder, scheduled the
// moment it is created, that reads back the then-current aggregate.
//
// Known defect, kept on purpose: orders merge by shop name alone. Opening a
// second order for the same shop at a different time sends all later
// contributions to the newer order.
package lunch
