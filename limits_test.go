package trackengine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckSegmentFirstViolationWins(t *testing.T) {
	limits := Limits{MaxDistanceKm: 10, MaxDurationS: 60, MaxSpeedKmh: 30}
	ascent := 12000.0
	seg := &Segment{
		DistanceKm:  50,
		DurationS:   7200,
		AscentM:     &ascent,
		MaxSpeedKmh: 90,
	}

	err := limits.CheckSegment(seg)
	var eve *ExceedingValueError
	require.True(t, errors.As(err, &eve))
	assert.Equal(t, FieldDistance, eve.Field)
	assert.Equal(t, 10.0, eve.Limit)
	assert.Equal(t, 50.0, eve.Value)
}

func TestCheckSegmentDisabledLimits(t *testing.T) {
	seg := &Segment{DistanceKm: 1e9, DurationS: 1 << 40, MaxSpeedKmh: 1e6}
	assert.NoError(t, Limits{}.CheckSegment(seg))
}

func TestCheckSegmentNilAscentSkipped(t *testing.T) {
	limits := Limits{MaxAscentM: 10}
	assert.NoError(t, limits.CheckSegment(&Segment{}))

	ascent := 11.0
	err := limits.CheckSegment(&Segment{AscentM: &ascent})
	var eve *ExceedingValueError
	require.True(t, errors.As(err, &eve))
	assert.Equal(t, FieldAscent, eve.Field)
}

func TestCheckWorkoutDuration(t *testing.T) {
	limits := DefaultLimits()
	w := &Workout{DurationS: 3 * 24 * 3600}

	err := limits.CheckWorkout(w)
	var eve *ExceedingValueError
	require.True(t, errors.As(err, &eve))
	assert.Equal(t, FieldDuration, eve.Field)
}

func TestDefaultLimits(t *testing.T) {
	l := DefaultLimits()
	assert.Equal(t, 3000.0, l.MaxDistanceKm)
	assert.Equal(t, int64(2*24*3600), l.MaxDurationS)
	assert.Equal(t, 400.0, l.MaxSpeedKmh)
}
