// Package analysis defines the shared result model for clip analysis,
// the error taxonomy used across components, and structural validation of
// results crossing the execution-context boundary.
package analysis
