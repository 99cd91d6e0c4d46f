// Package mileage provides the functions and types for tracking a personal
// airline loyalty ledger. It is designed to be local-first and auditable: the
// ledger is a single human readable file, and every figure is recomputed
// from it.
//
// The core functionalities include:
//   - Ledger Management: Recording flights, monthly miles activity, manual
//     point adjustments and the qualification settings in a single
//     chronological record.
//   - Rebuild: A pure derivation of the monthly aggregates from the flight
//     list, idempotent and safe to run on every read.
//   - Qualification Cycles: Computing XP tiers, status inheritance and
//     Ultimate progress for every cycle from the first tracked month to the
//     current one.
//   - Import Merge: Folding parsed statements into the ledger under fixed
//     authority rules, with a backup captured first so that every import can
//     be undone.
//   - Data Persistence: Handling the encoding and decoding of the ledger to
//     and from a human-readable, version-controllable format (JSONL).
//
// This package serves as the foundational logic for the `mqs` command-line
// tool, ensuring that all operations are consistent and based on a single
// source of truth.
package mileage
