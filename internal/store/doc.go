// Package store persists analysis records in SQLite.
//
// Each record is keyed by the clip's identity string and carries its
// lifecycle status plus the serialized result once analysis completes. The
// store applies WAL journaling and retries briefly on SQLITE_BUSY so the CLI
// and the analysis pipelines can share one database file.
package store
