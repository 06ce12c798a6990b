package store

import (
	"context"
	"errors"
)

// Collection keys. The persisted layout is a flat string-to-string mapping,
// one key per collection, each value a JSON array.
const (
	CollectionUsers        = "users"
	CollectionDoctors      = "doctors"
	CollectionDepartments  = "departments"
	CollectionAppointments = "appointments"
)

// ErrVersionConflict is returned by Put when the caller's version is stale.
// Repositories react by re-reading and re-applying their mutation.
var ErrVersionConflict = errors.New("version conflict")

// KV is a durable key-value mapping with compare-and-swap writes. Every key
// carries a version counter that increments on each successful write; a Put
// with a version other than the current one fails with ErrVersionConflict.
//
// A missing key reads as the empty string at version 0, and a Put at version
// 0 creates it. This turns the source model's last-write-wins race between
// cached readers into a detected conflict.
type KV interface {
	Get(ctx context.Context, key string) (value string, version int64, err error)
	Put(ctx context.Context, key, value string, version int64) (newVersion int64, err error)
	Close() error
}
