package driven

import "time"

// LoadRecorder receives one observation per item-source attempt.
// err is nil on success.
type LoadRecorder interface {
	RecordLoad(source string, err error, elapsed time.Duration)
}
