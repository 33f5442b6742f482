// Package trackengine converts raw activity-track files into fully
// computed workouts: canonical parsing, per-point and per-segment metrics,
// elevation resolution, and value-limit validation.
package trackengine

import (
	"time"
)

// Bounds is the minimal bounding box enclosing a set of points, as
// [min_lat, min_lon, max_lat, max_lon].
type Bounds [4]float64

// union grows b to cover o.
func (b Bounds) union(o Bounds) Bounds {
	out := b
	if o[0] < out[0] {
		out[0] = o[0]
	}
	if o[1] < out[1] {
		out[1] = o[1]
	}
	if o[2] > out[2] {
		out[2] = o[2]
	}
	if o[3] > out[3] {
		out[3] = o[3]
	}
	return out
}

// Record is one fully derived track point as consumed by API and chart
// layers.
type Record struct {
	DistanceM  float64  `json:"distance_m"`
	ElapsedS   int64    `json:"elapsed_s"`
	ElevationM *float64 `json:"elevation_m"`
	Lat        float64  `json:"lat"`
	Lon        float64  `json:"lon"`
	SpeedKmh   float64  `json:"speed_kmh"`
	PaceSPerM  float64  `json:"pace_s_per_m"`
	HeartRate  *int     `json:"heart_rate,omitempty"`
	Cadence    *int     `json:"cadence,omitempty"`
	Power      *int     `json:"power,omitempty"`
}

// Segment is one computed continuous recording. Segments are owned by
// their Workout and fully replaced, never patched, on refresh.
type Segment struct {
	StartAt time.Time `json:"start_at"`

	DistanceKm float64 `json:"distance_km"`

	// DurationS is always MovingS + PausedS exactly, whole seconds.
	DurationS int64 `json:"duration_s"`
	MovingS   int64 `json:"moving_s"`
	PausedS   int64 `json:"paused_s"`

	AscentM       *float64 `json:"ascent_m,omitempty"`
	DescentM      *float64 `json:"descent_m,omitempty"`
	MinElevationM *float64 `json:"min_elevation_m,omitempty"`
	MaxElevationM *float64 `json:"max_elevation_m,omitempty"`

	AvgSpeedKmh float64 `json:"avg_speed_kmh"`
	MaxSpeedKmh float64 `json:"max_speed_kmh"`

	AvgPaceSPerM  float64 `json:"avg_pace_s_per_m"`
	BestPaceSPerM float64 `json:"best_pace_s_per_m"`

	AvgHeartRate *float64 `json:"avg_heart_rate,omitempty"`
	MaxHeartRate *int     `json:"max_heart_rate,omitempty"`
	AvgCadence   *float64 `json:"avg_cadence,omitempty"`
	MaxCadence   *int     `json:"max_cadence,omitempty"`
	AvgPower     *float64 `json:"avg_power,omitempty"`
	MaxPower     *int     `json:"max_power,omitempty"`

	// Geometry is the simplified ordered lon/lat polyline for bounding
	// and map rendering.
	Geometry [][2]float64 `json:"geometry"`

	Bounds Bounds `json:"bounds"`

	Records []Record `json:"records"`

	// distanceM keeps the unrounded meter total for workout rollups.
	distanceM float64
}

// Workout is the aggregate produced by one ingestion: track-level rollups
// plus all computed segments. It is created once per ingested file and
// mutated in place on refresh.
type Workout struct {
	ID string `json:"id"`

	// Creator is the source file's declared creator/software string.
	Creator string `json:"creator,omitempty"`

	// ElevationSource records where the effective elevation values came
	// from: elevation.SourceFile or an external service ID.
	ElevationSource string `json:"elevation_source"`

	// Calories is the total energy from format-specific extensions,
	// zero when the format carries none.
	Calories int `json:"calories,omitempty"`

	DistanceKm float64 `json:"distance_km"`
	DurationS  int64   `json:"duration_s"`
	MovingS    int64   `json:"moving_s"`
	PausedS    int64   `json:"paused_s"`

	AscentM       *float64 `json:"ascent_m,omitempty"`
	DescentM      *float64 `json:"descent_m,omitempty"`
	MinElevationM *float64 `json:"min_elevation_m,omitempty"`
	MaxElevationM *float64 `json:"max_elevation_m,omitempty"`

	AvgSpeedKmh float64 `json:"avg_speed_kmh"`
	MaxSpeedKmh float64 `json:"max_speed_kmh"`

	Bounds *Bounds `json:"bounds,omitempty"`

	Segments []Segment `json:"segments"`
}

// recomputeRollups rebuilds every workout-level aggregate from the current
// segments, so rollups can never go stale after a refresh.
func (w *Workout) recomputeRollups() {
	w.DistanceKm = 0
	w.DurationS = 0
	w.MovingS = 0
	w.PausedS = 0
	w.AscentM = nil
	w.DescentM = nil
	w.MinElevationM = nil
	w.MaxElevationM = nil
	w.AvgSpeedKmh = 0
	w.MaxSpeedKmh = 0
	w.Bounds = nil

	distanceM := 0.0
	for i := range w.Segments {
		s := &w.Segments[i]
		distanceM += s.distanceM
		w.DurationS += s.DurationS
		w.MovingS += s.MovingS
		if s.MaxSpeedKmh > w.MaxSpeedKmh {
			w.MaxSpeedKmh = s.MaxSpeedKmh
		}
		w.AscentM = sumOptional(w.AscentM, s.AscentM)
		w.DescentM = sumOptional(w.DescentM, s.DescentM)
		w.MinElevationM = minOptional(w.MinElevationM, s.MinElevationM)
		w.MaxElevationM = maxOptional(w.MaxElevationM, s.MaxElevationM)
		if w.Bounds == nil {
			b := s.Bounds
			w.Bounds = &b
		} else {
			b := w.Bounds.union(s.Bounds)
			w.Bounds = &b
		}
	}
	w.PausedS = w.DurationS - w.MovingS
	w.DistanceKm = round3(distanceM / 1000.0)
	if w.MovingS > 0 {
		w.AvgSpeedKmh = round2(distanceM / 1000.0 / (float64(w.MovingS) / 3600.0))
	}
}

func sumOptional(acc, v *float64) *float64 {
	if v == nil {
		return acc
	}
	if acc == nil {
		out := *v
		return &out
	}
	out := *acc + *v
	return &out
}

func minOptional(acc, v *float64) *float64 {
	if v == nil {
		return acc
	}
	if acc == nil || *v < *acc {
		out := *v
		return &out
	}
	return acc
}

func maxOptional(acc, v *float64) *float64 {
	if v == nil {
		return acc
	}
	if acc == nil || *v > *acc {
		out := *v
		return &out
	}
	return acc
}
