// SPDX-License-Identifier: MIT

// Package store persists session snapshots in BadgerDB.
//
// Snapshots are gob-encoded under "snap/<id>". An empty path opens an
// in-memory database, which the tests and the default serve mode use.
package store
