// Package scheduler drives the ingestion pipeline on a fixed interval.
//
// The scheduler:
//   - Runs one ingestion cycle immediately on start, then once per tick
//   - Executes runs sequentially so cycles never overlap
//   - Logs failed runs and retries at the next tick
//   - Bounds each run with a per-run context timeout
package scheduler
