package model

import "time"

// DispatchSummary captures metrics from a single finalize dispatch.
type DispatchSummary struct {
	RequestID      string
	DispatchID     int64
	ContentSHA256  string
	CodesWritten   int64
	DurationHash   time.Duration
	DurationInsert time.Duration
	DurationCopy   time.Duration
	DurationTotal  time.Duration
}
