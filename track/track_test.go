package track

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversineKnownDistance(t *testing.T) {
	// Paris to London, roughly 344 km.
	d := Haversine(48.8566, 2.3522, 51.5074, -0.1278)
	assert.InDelta(t, 344000, d, 2000)
}

func TestHaversineZero(t *testing.T) {
	assert.Equal(t, 0.0, Haversine(48.0, 2.0, 48.0, 2.0))
}

func TestDistanceToFoldsElevation(t *testing.T) {
	a := Point{Latitude: 48.0, Longitude: 2.0}
	b := Point{Latitude: 48.0, Longitude: 2.001}

	flat := a.DistanceTo(&b)
	require.Greater(t, flat, 0.0)

	lo, hi := 0.0, 100.0
	a.Elevation = &lo
	b.Elevation = &hi
	with := a.DistanceTo(&b)
	assert.InDelta(t, math.Sqrt(flat*flat+100*100), with, 1e-9)

	// One-sided elevation falls back to the flat distance.
	b.Elevation = nil
	assert.Equal(t, flat, a.DistanceTo(&b))
}

func TestValidateDropsShortSegments(t *testing.T) {
	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	tr := &Track{Segments: []Segment{
		{Points: []Point{{Latitude: 48, Longitude: 2, Time: start}}},
		{Points: []Point{
			{Latitude: 48, Longitude: 2, Time: start},
			{Latitude: 48.001, Longitude: 2, Time: start.Add(5 * time.Second)},
		}},
		{Points: nil},
	}}

	require.NoError(t, tr.Validate())
	assert.Len(t, tr.Segments, 1)
	assert.Equal(t, 2, tr.PointCount())
}

func TestValidateNoValidSegments(t *testing.T) {
	tr := &Track{Segments: []Segment{
		{Points: []Point{{Latitude: 48, Longitude: 2}}},
	}}

	err := tr.Validate()
	var nve *NoValidSegmentsError
	require.True(t, errors.As(err, &nve))
	assert.Contains(t, err.Error(), "at least two points")
}

func TestValidateMissingTimestamp(t *testing.T) {
	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	tr := &Track{Segments: []Segment{
		{Points: []Point{
			{Latitude: 48, Longitude: 2, Time: start},
			{Latitude: 48.001, Longitude: 2, Time: start.Add(5 * time.Second)},
		}},
		{Points: []Point{
			{Latitude: 48.002, Longitude: 2},
			{Latitude: 48.003, Longitude: 2},
		}},
	}}

	err := tr.Validate()
	var mte *MissingTimestampError
	require.True(t, errors.As(err, &mte))
	assert.Equal(t, 1, mte.SegmentIndex)
}

func TestMissingElevation(t *testing.T) {
	ele := 120.0
	tr := &Track{Segments: []Segment{
		{Points: []Point{
			{Latitude: 48, Longitude: 2, Elevation: &ele},
			{Latitude: 48.001, Longitude: 2},
		}},
	}}
	assert.True(t, tr.MissingElevation())

	tr.Segments[0].Points[1].Elevation = &ele
	assert.False(t, tr.MissingElevation())
}
