// Package alert implements persistence for alert lifecycle records.
//
// Three Store implementations exist: MemoryStore for tests and single-node edge
// installs without durability needs, FileStore which snapshots records to a JSON
// file after every change, and PostgresStore backed by the alerts table.
// Every implementation enforces the same rules: alert ids are unique, and a
// record leaves PENDING exactly once, for COMPLETED or FAILED.
package alert
