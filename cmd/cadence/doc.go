// Command cadence is the CLI for the clip analysis pipelines: it queues
// clips for analysis, inspects persisted records, and manages configuration.
package main
