// Package logging assembles the structured slog loggers used across cadence.
//
// It owns the configurable console/JSON handlers, centralizes level and
// output plumbing, and standardizes attribute keys so every component tags
// log lines the same way. A no-op logger is provided for tests and wiring
// code that cannot fail.
package logging
