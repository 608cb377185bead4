// Package task provides the process-wide worker pool used for background
// work: a buffered TaskQueue, a fixed-size WorkerPool consuming it, the Task
// interface, and a Future type for handing asynchronous results back to
// callers.
package task
