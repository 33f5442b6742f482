package track

import "fmt"

// NoValidSegmentsError reports a track without a single usable segment
// (fewer than two points everywhere).
type NoValidSegmentsError struct{}

func (e *NoValidSegmentsError) Error() string {
	return "no tracking points: segments must have at least two points"
}

// MissingTimestampError reports a segment whose first point lacks a
// timestamp, which makes duration and speed computation impossible.
type MissingTimestampError struct {
	SegmentIndex int
}

func (e *MissingTimestampError) Error() string {
	return fmt.Sprintf("segment %d has no timestamp on its first point", e.SegmentIndex)
}
