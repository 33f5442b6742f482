// Package format converts raw activity-file bytes (GPX, TCX, KML, KMZ, FIT)
// into the canonical track model. Each adapter is a thin converter; all
// shared behavior (structural validation, metric computation) happens
// downstream on the canonical track.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/lucasjlepore/track-engine/track"
)

// Format identifies a supported source file format. The tag is derived from
// the file extension by the caller.
type Format string

const (
	GPX Format = "gpx"
	TCX Format = "tcx"
	KML Format = "kml"
	KMZ Format = "kmz"
	FIT Format = "fit"
)

// MaxAbsoluteElevation is the elevation magnitude (meters) above which a
// value is considered an instrument artifact and dropped rather than
// propagated. Some devices emit garbage altitudes in the tens of thousands
// of meters; the threshold is deliberately a variable so callers can widen
// or tighten it.
var MaxAbsoluteElevation = 10000.0

// ParseError reports a malformed, unsupported, or empty source file.
type ParseError struct {
	Format Format
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s: %s: %v", e.Format, e.Reason, e.Err)
	}
	return fmt.Sprintf("parse %s: %s", e.Format, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseFormat maps a file extension tag (with or without a leading dot,
// any case) to a Format.
func ParseFormat(tag string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimPrefix(tag, "."))) {
	case GPX:
		return GPX, nil
	case TCX:
		return TCX, nil
	case KML:
		return KML, nil
	case KMZ:
		return KMZ, nil
	case FIT:
		return FIT, nil
	}
	return "", fmt.Errorf("unsupported file format %q", tag)
}

// Parse converts raw file bytes into a canonical track using the adapter
// for f. The returned track has passed structural validation.
func Parse(data []byte, f Format) (*track.Track, error) {
	var (
		t   *track.Track
		err error
	)
	switch f {
	case GPX:
		t, err = parseGPX(data)
	case TCX:
		t, err = parseTCX(data)
	case KML:
		t, err = parseKML(data)
	case KMZ:
		t, err = parseKMZ(data)
	case FIT:
		t, err = parseFIT(data)
	default:
		return nil, &ParseError{Format: f, Reason: "unknown format"}
	}
	if err != nil {
		return nil, err
	}
	truncateTimes(t)
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// truncateTimes drops sub-second fractions from every point timestamp.
// All downstream accounting is whole-second, and the refresh elevation
// cache rebuilds point times from whole-second offsets; a fractional
// device timestamp would land those keys in the wrong second.
func truncateTimes(t *track.Track) {
	for si := range t.Segments {
		points := t.Segments[si].Points
		for pi := range points {
			if points[pi].HasTime() {
				points[pi].Time = points[pi].Time.Truncate(time.Second)
			}
		}
	}
}

// saneElevation filters instrument-artifact altitudes: values at or beyond
// MaxAbsoluteElevation in magnitude, NaN, and infinities become "no
// elevation".
func saneElevation(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) >= MaxAbsoluteElevation {
		return nil
	}
	return &v
}

func intPtr(v int) *int { return &v }
