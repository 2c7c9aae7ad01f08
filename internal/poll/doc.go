// Package poll implements the polling-and-refresh engine behind the
// dashboard: it periodically gathers model-serving state and host
// resource metrics, merges them into immutable snapshots, and publishes
// each snapshot exactly once.
//
// # Architecture
//
//	Scheduler   - Owns the refresh cadence and manual refresh requests
//	Merge       - Pure function combining collector results into a Snapshot
//	Dispatcher  - Runs start/stop lifecycle actions and triggers refreshes
//
// # Poll cycle
//
// The scheduler runs a single goroutine through the states
//
//	IDLE -> POLLING -> PUBLISHED -> IDLE
//
// On each POLLING phase the resource collector and the model status
// client run concurrently (errgroup) under one deadline, so cycle
// latency is bounded by the slower of the two rather than their sum.
// Partial failure still yields a snapshot: the failing source's section
// is left absent and recorded in CollectorErrors.
//
// Because all cycles run on one goroutine, no two cycles ever overlap.
// A manual Refresh during POLLING is coalesced into the cycle already
// in flight, and the interval timer is reset when a cycle ends so a
// manual refresh never causes a double-fire.
//
// # Publication
//
// Snapshots are immutable once constructed. The latest snapshot is
// swapped in atomically and also pushed to a capacity-one updates
// channel where a stale pending snapshot is replaced rather than
// queued, so a slow consumer always wakes up to the newest state.
// TakenAt is strictly monotonically increasing across publications.
package poll
