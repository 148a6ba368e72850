// Package state provides the durable record of completed locations that
// makes distribution runs resumable.
//
// The engine consults the store before selecting a batch and updates it
// once per completed batch, so an interrupted run can be restarted
// without re-processing locations or overwriting prior work. The store
// tracks only per-location completion; source folder consumption is
// re-derived on resume and is deliberately not persisted.
//
// The backing file is a JSON document:
//
//	{"processed_locations": ["London", "Paris"]}
//
// Persisting rewrites the whole document through a temporary file and
// an atomic rename, so a crash mid-write leaves either the old or the
// new state on disk, never a mixture. An unparseable state file aborts
// the run: the store refuses to guess progress rather than risk
// duplicate folder creation.
package state
