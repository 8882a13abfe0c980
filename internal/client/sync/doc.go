// Package sync implements the client side of Tickit synchronization: the
// change collector, the HTTP transport, the reconciliation engine and the
// scheduler driving periodic cycles.
//
// A cycle pushes local changes since the last checkpoint, receives the
// server's missing records, merges them last-write-wins into the local store
// and advances the checkpoint to min(local start time, server time) so clock
// skew never loses changes. Deletions travel as tombstone records so removed
// entities cannot be resurrected by a stale device.
package sync
