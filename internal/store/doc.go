// Package store is the gateway to the single-file embedded SQLite store
// holding files, tag groups, tags, and tag-file associations.
//
// Opening a store runs a strict state machine: a nonexistent path becomes a
// fresh store built from the schema registry's creation script; an existing
// file must be a SQLite database whose table and column sets match the
// registry exactly, or the open is rejected without touching the file.
// Schema problems are never auto-repaired.
//
// CRUD primitives are batch-first: they take a slice of per-kind request
// structs and return a slice of per-item results. A constraint violation is
// an expected, recoverable, per-item condition carried as data in the
// result; it never aborts the rest of the batch and never crashes the
// process. Only open-time shape problems are fatal.
//
// File creation computes the content digest before insertion, so a file's
// stored identity is its bytes, not its name. Failed file inserts carry the
// computed digest: SQLite does not reliably report which of the two UNIQUE
// constraints (path or digest) fired when both are violated, so callers
// disambiguate with a follow-up FileByDigest lookup.
//
// The store expects a single caller at a time. There is no internal
// locking; the connection pool is pinned to one connection and referential
// enforcement (PRAGMA foreign_keys) is enabled on every successful open.
package store
