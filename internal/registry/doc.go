// Package registry provides a SQLite-backed schema registry.
//
// Schemas are registered under a subject and numbered from 1. Registering a
// schema that the registry's comparator finds equal to an existing version
// of the subject returns that version instead of adding a new one; which
// schemas count as equal is up to the comparator (see package schemaeq).
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - One open connection: writes are serialized
//
// Versions are ordered by their version number, never by time.
package registry
