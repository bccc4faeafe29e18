// Package recorder enqueues playbook run records for asynchronous storage.
//
// # Async Recording
//
// The recorder uses a buffered channel and a background goroutine so the
// runner never blocks on disk:
//
//   - Record() assigns an ID, stamps RecordedTime, and enqueues (non-blocking)
//   - The background goroutine drains the channel and writes to storage
//   - Close() drains the channel before exit so no accepted record is lost
//
// If the channel stays full for WriteTimeout the record is dropped and a
// RecorderError returned; run history is best-effort and must never wedge
// a run.
//
// # Hashing
//
// HashContent and HashString produce hex-encoded SHA-256 digests for the
// resolved document and step outputs. Only the first MaxHashSize bytes of
// large content are hashed.
//
// # Thread Safety
//
// Record() may be called concurrently. The background goroutine is the only
// writer to storage.
package recorder
