// Package scan holds the domain model of one compliance scan: the Target
// under test, the enumerated CheckName registry keys, per-check Results and
// the sealed Report that aggregates them in registration order.
package scan
