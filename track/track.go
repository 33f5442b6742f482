// Package track defines the canonical, format-agnostic representation of a
// recorded activity track. Every format adapter produces a Track; all
// downstream metric computation consumes one.
package track

import (
	"math"
	"time"
)

// Point is a single recorded track point. Longitude and latitude are WGS84
// degrees and always present; everything else is optional.
type Point struct {
	Longitude float64
	Latitude  float64

	// Elevation in meters, nil when the source carried none.
	Elevation *float64

	// Time is the recording timestamp, zero when the source carried none.
	Time time.Time

	HeartRate *int
	Cadence   *int
	Power     *int
}

// HasTime reports whether the point carries a timestamp.
func (p *Point) HasTime() bool {
	return !p.Time.IsZero()
}

// Segment is one continuous, uninterrupted recording.
type Segment struct {
	Points []Point
}

// Track is one logical activity made of ordered segments.
type Track struct {
	// Creator is the source file's declared creator/software string.
	Creator string

	// Calories is the total energy reported by format-specific extensions,
	// zero when the format carries none.
	Calories int

	Segments []Segment
}

const earthRadiusM = 6371000.0

// Haversine returns the great-circle distance between two coordinates in
// meters.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusM * c
}

// DistanceTo returns the distance in meters from p to q. When both points
// carry elevation the elevation delta is folded in (3D distance), otherwise
// the distance is the flat 2D great-circle distance.
func (p *Point) DistanceTo(q *Point) float64 {
	flat := Haversine(p.Latitude, p.Longitude, q.Latitude, q.Longitude)
	if p.Elevation == nil || q.Elevation == nil {
		return flat
	}
	dEle := *q.Elevation - *p.Elevation
	return math.Sqrt(flat*flat + dEle*dEle)
}

// Validate enforces the structural invariants every canonical track must
// satisfy before metric computation: segments with fewer than two points are
// dropped, at least one segment must survive, and the first point of each
// surviving segment must carry a timestamp.
func (t *Track) Validate() error {
	kept := t.Segments[:0]
	for _, seg := range t.Segments {
		if len(seg.Points) < 2 {
			continue
		}
		kept = append(kept, seg)
	}
	t.Segments = kept

	if len(t.Segments) == 0 {
		return &NoValidSegmentsError{}
	}
	for i := range t.Segments {
		if !t.Segments[i].Points[0].HasTime() {
			return &MissingTimestampError{SegmentIndex: i}
		}
	}
	return nil
}

// PointCount returns the total number of points across all segments.
func (t *Track) PointCount() int {
	n := 0
	for _, seg := range t.Segments {
		n += len(seg.Points)
	}
	return n
}

// MissingElevation reports whether any point lacks an elevation value.
func (t *Track) MissingElevation() bool {
	for _, seg := range t.Segments {
		for i := range seg.Points {
			if seg.Points[i].Elevation == nil {
				return true
			}
		}
	}
	return false
}
