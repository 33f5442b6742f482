package trackengine

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"

	"github.com/lucasjlepore/track-engine/track"
)

// DefaultStoppedSpeedThreshold is the speed (km/h) below which a
// point-to-point interval counts as stopped rather than moving.
const DefaultStoppedSpeedThreshold = 1.0

// geometryTolerance is the Douglas-Peucker tolerance (degrees) for the
// simplified per-segment polyline.
const geometryTolerance = 0.0001

// speedTrimFraction is the share of top interval speeds discarded before
// taking the max, unless raw speed is requested. GPS jitter routinely
// produces a handful of absurd instantaneous speeds per recording.
const speedTrimFraction = 0.05

type computeOptions struct {
	supportsElevation     bool
	stoppedSpeedThreshold float64
	useRawSpeed           bool
}

// computeSegments derives all per-point and per-segment metrics for a
// validated canonical track. Each segment is checked against the limits as
// soon as it is computed; any violation aborts the whole computation.
// Cancellation is honored between segments.
func (e *Engine) computeSegments(ctx context.Context, t *track.Track, opts computeOptions) ([]Segment, error) {
	if opts.stoppedSpeedThreshold <= 0 {
		opts.stoppedSpeedThreshold = DefaultStoppedSpeedThreshold
	}

	segments := make([]Segment, 0, len(t.Segments))
	var prevEnd time.Time
	for i := range t.Segments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		points := t.Segments[i].Points

		// Real time elapsed between recorded segments is a pause: it is
		// attributed to the following segment's stopped time.
		var gap time.Duration
		if i > 0 && !prevEnd.IsZero() && points[0].Time.After(prevEnd) {
			gap = points[0].Time.Sub(prevEnd)
		}

		seg := computeSegment(points, gap, opts)
		if err := e.Limits.CheckSegment(&seg); err != nil {
			return nil, err
		}
		segments = append(segments, seg)

		if last := points[len(points)-1]; last.HasTime() {
			prevEnd = last.Time
		}
	}
	return segments, nil
}

func computeSegment(points []track.Point, gap time.Duration, opts computeOptions) Segment {
	start := points[0].Time

	var (
		distanceM      float64
		moving         time.Duration
		stopped        = gap
		intervalSpeeds = make([]float64, 0, len(points)-1)
		records        = make([]Record, len(points))
		lastElapsed    time.Duration
	)

	prev := &points[0]
	for j := 1; j < len(points); j++ {
		p := &points[j]
		distanceM += prev.DistanceTo(p)

		var dt time.Duration
		if p.HasTime() && prev.HasTime() {
			dt = p.Time.Sub(prev.Time)
		}
		speed := 0.0
		if dt > 0 {
			speed = distanceBetweenKmh(prev, p, dt)
			intervalSpeeds = append(intervalSpeeds, speed)
			if speed < opts.stoppedSpeedThreshold {
				stopped += dt
			} else {
				moving += dt
			}
		}
		if p.HasTime() {
			lastElapsed = p.Time.Sub(start)
		}
		records[j] = pointRecord(p, distanceM, lastElapsed, speed)
		prev = p
	}

	// The first point has no preceding interval; it reports the speed of
	// the interval that follows it.
	records[0] = pointRecord(&points[0], 0, 0, 0)
	records[0].SpeedKmh = records[1].SpeedKmh
	records[0].PaceSPerM = records[1].PaceSPerM

	total := moving + stopped
	seg := Segment{
		StartAt:    start,
		DistanceKm: round3(distanceM / 1000.0),
		DurationS:  int64(total / time.Second),
		MovingS:    int64(moving / time.Second),
		distanceM:  distanceM,
	}
	seg.PausedS = seg.DurationS - seg.MovingS
	seg.Records = records

	seg.MaxSpeedKmh = round2(maxIntervalSpeed(intervalSpeeds, opts.useRawSpeed))
	if moving > 0 {
		seg.AvgSpeedKmh = round2(distanceM / 1000.0 / (moving.Hours()))
	}
	seg.AvgPaceSPerM = paceFor(seg.AvgSpeedKmh)
	seg.BestPaceSPerM = paceFor(seg.MaxSpeedKmh)

	applyElevationStats(&seg, points, opts.supportsElevation)
	applyBiometricStats(&seg, points)
	applyGeometry(&seg, points)

	return seg
}

func distanceBetweenKmh(a, b *track.Point, dt time.Duration) float64 {
	return a.DistanceTo(b) / dt.Seconds() * 3.6
}

func pointRecord(p *track.Point, distanceM float64, elapsed time.Duration, speed float64) Record {
	rec := Record{
		DistanceM: round2(distanceM),
		ElapsedS:  int64(elapsed / time.Second),
		Lat:       p.Latitude,
		Lon:       p.Longitude,
		SpeedKmh:  round2(speed),
		PaceSPerM: paceFor(round2(speed)),
		HeartRate: p.HeartRate,
		Cadence:   p.Cadence,
		Power:     p.Power,
	}
	if p.Elevation != nil {
		rec.ElevationM = float64Ptr(round2(*p.Elevation))
	}
	return rec
}

// paceFor converts a speed in km/h to seconds per meter. A speed of
// exactly zero yields a pace of zero, not infinity.
func paceFor(speedKmh float64) float64 {
	if speedKmh == 0 {
		return 0
	}
	return round2(3.6 / speedKmh)
}

// maxIntervalSpeed returns the top interval speed. Unless raw is set, the
// highest speedTrimFraction of intervals is discarded first to suppress
// GPS jitter spikes.
func maxIntervalSpeed(speeds []float64, raw bool) float64 {
	if len(speeds) == 0 {
		return 0
	}
	if raw || len(speeds) < 20 {
		max := speeds[0]
		for _, v := range speeds[1:] {
			if v > max {
				max = v
			}
		}
		return max
	}

	sorted := append([]float64(nil), speeds...)
	sort.Float64s(sorted)
	trimmed := sorted[:len(sorted)-int(float64(len(sorted))*speedTrimFraction)]
	if len(trimmed) == 0 {
		return sorted[len(sorted)-1]
	}
	return trimmed[len(trimmed)-1]
}

func applyElevationStats(seg *Segment, points []track.Point, supportsElevation bool) {
	var minEle, maxEle *float64
	ascent, descent := 0.0, 0.0
	var prevEle *float64
	for i := range points {
		ele := points[i].Elevation
		if ele == nil {
			continue
		}
		minEle = minOptional(minEle, ele)
		maxEle = maxOptional(maxEle, ele)
		if prevEle != nil {
			delta := *ele - *prevEle
			if delta > 0 {
				ascent += delta
			} else {
				descent += -delta
			}
		}
		prevEle = ele
	}

	if minEle != nil {
		seg.MinElevationM = float64Ptr(round2(*minEle))
		seg.MaxElevationM = float64Ptr(round2(*maxEle))
	}
	// Ascent/descent only exist for sports with the elevation capability,
	// and only when the track produced elevation extremes at all.
	if supportsElevation && minEle != nil {
		seg.AscentM = float64Ptr(round2(ascent))
		seg.DescentM = float64Ptr(round2(descent))
	}
}

func applyBiometricStats(seg *Segment, points []track.Point) {
	var hr, cadence, power []int
	for i := range points {
		if v := points[i].HeartRate; v != nil {
			hr = append(hr, *v)
		}
		if v := points[i].Cadence; v != nil {
			cadence = append(cadence, *v)
		}
		if v := points[i].Power; v != nil {
			power = append(power, *v)
		}
	}

	seg.AvgHeartRate, seg.MaxHeartRate = intStats(hr)
	seg.AvgPower, seg.MaxPower = intStats(power)

	// A cadence sensor that reports nothing shows up as all-zero samples
	// in some formats; that must read as "no cadence", not "0 cadence".
	if allZero(cadence) {
		seg.AvgCadence, seg.MaxCadence = nil, nil
	} else {
		seg.AvgCadence, seg.MaxCadence = intStats(cadence)
	}
}

// intStats returns the arithmetic mean and max of the collected samples;
// absent samples are excluded, never zero-filled.
func intStats(values []int) (*float64, *int) {
	if len(values) == 0 {
		return nil, nil
	}
	sum := 0
	max := values[0]
	for _, v := range values {
		sum += v
		if v > max {
			max = v
		}
	}
	avg := round2(float64(sum) / float64(len(values)))
	return &avg, &max
}

func allZero(values []int) bool {
	for _, v := range values {
		if v != 0 {
			return false
		}
	}
	return true
}

func applyGeometry(seg *Segment, points []track.Point) {
	ls := make(orb.LineString, 0, len(points))
	for i := range points {
		ls = append(ls, orb.Point{points[i].Longitude, points[i].Latitude})
	}

	b := ls.Bound()
	seg.Bounds = Bounds{b.Min.Lat(), b.Min.Lon(), b.Max.Lat(), b.Max.Lon()}

	simplified := simplify.DouglasPeucker(geometryTolerance).LineString(ls.Clone())
	seg.Geometry = make([][2]float64, 0, len(simplified))
	for _, p := range simplified {
		seg.Geometry = append(seg.Geometry, [2]float64{p.Lon(), p.Lat()})
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func float64Ptr(v float64) *float64 { return &v }
