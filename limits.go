package trackengine

// Limits holds the configured maximum allowed values for computed metrics.
// It is read-only configuration passed explicitly into the engine; a zero
// or negative maximum disables the check for that field.
type Limits struct {
	MaxDistanceKm float64
	MaxDurationS  int64
	MaxAscentM    float64
	MaxDescentM   float64
	MaxSpeedKmh   float64
}

// DefaultLimits returns limits generous enough for any plausible
// single-activity recording while still catching corrupt files.
func DefaultLimits() Limits {
	return Limits{
		MaxDistanceKm: 3000,
		MaxDurationS:  2 * 24 * 3600,
		MaxAscentM:    99999.999,
		MaxDescentM:   99999.999,
		MaxSpeedKmh:   400,
	}
}

// Limit field names surfaced by ExceedingValueError.
const (
	FieldDistance = "distance"
	FieldDuration = "duration"
	FieldAscent   = "ascent"
	FieldDescent  = "descent"
	FieldMaxSpeed = "max_speed"
)

// check compares one computed metric set against the limits, in the fixed
// order distance, duration, ascent, descent, max speed, and returns the
// first violation.
func (l Limits) check(distanceKm float64, durationS int64, ascent, descent *float64, maxSpeedKmh float64) error {
	if l.MaxDistanceKm > 0 && distanceKm > l.MaxDistanceKm {
		return &ExceedingValueError{Field: FieldDistance, Limit: l.MaxDistanceKm, Value: distanceKm}
	}
	if l.MaxDurationS > 0 && durationS > l.MaxDurationS {
		return &ExceedingValueError{Field: FieldDuration, Limit: float64(l.MaxDurationS), Value: float64(durationS)}
	}
	if l.MaxAscentM > 0 && ascent != nil && *ascent > l.MaxAscentM {
		return &ExceedingValueError{Field: FieldAscent, Limit: l.MaxAscentM, Value: *ascent}
	}
	if l.MaxDescentM > 0 && descent != nil && *descent > l.MaxDescentM {
		return &ExceedingValueError{Field: FieldDescent, Limit: l.MaxDescentM, Value: *descent}
	}
	if l.MaxSpeedKmh > 0 && maxSpeedKmh > l.MaxSpeedKmh {
		return &ExceedingValueError{Field: FieldMaxSpeed, Limit: l.MaxSpeedKmh, Value: maxSpeedKmh}
	}
	return nil
}

// CheckSegment validates one computed segment.
func (l Limits) CheckSegment(s *Segment) error {
	return l.check(s.DistanceKm, s.DurationS, s.AscentM, s.DescentM, s.MaxSpeedKmh)
}

// CheckWorkout validates the workout-level rollups.
func (l Limits) CheckWorkout(w *Workout) error {
	return l.check(w.DistanceKm, w.DurationS, w.AscentM, w.DescentM, w.MaxSpeedKmh)
}
