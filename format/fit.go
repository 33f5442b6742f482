package format

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/tormoder/fit"

	"github.com/lucasjlepore/track-engine/track"
)

// parseFIT decodes a FIT activity file. Records between timer-stop and
// timer-start events form separate canonical segments; records without a
// GPS fix are skipped. FIT encodes "no sample" as all-ones sentinels, which
// must not leak into the canonical model as real values.
func parseFIT(data []byte) (*track.Track, error) {
	decoded, err := fit.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Format: FIT, Reason: "malformed file", Err: err}
	}
	activity, err := decoded.Activity()
	if err != nil {
		return nil, &ParseError{Format: FIT, Reason: "not an activity file", Err: err}
	}
	if len(activity.Records) == 0 {
		return nil, &ParseError{Format: FIT, Reason: "no records in file"}
	}

	records := make([]*fit.RecordMsg, 0, len(activity.Records))
	for _, rec := range activity.Records {
		if rec != nil {
			records = append(records, rec)
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})

	out := &track.Track{Creator: fmt.Sprint(decoded.FileId.Manufacturer)}
	for _, session := range activity.Sessions {
		if session != nil && session.TotalCalories != math.MaxUint16 {
			out.Calories += int(session.TotalCalories)
		}
	}

	stops := timerStops(activity.Events)
	var current []track.Point
	for _, rec := range records {
		lat := rec.PositionLat.Degrees()
		lon := rec.PositionLong.Degrees()
		if math.IsNaN(lat) || math.IsNaN(lon) {
			continue
		}

		if len(current) > 0 && stoppedBetween(stops, current[len(current)-1].Time, rec.Timestamp) {
			out.Segments = append(out.Segments, track.Segment{Points: current})
			current = nil
		}

		point := track.Point{
			Longitude: lon,
			Latitude:  lat,
			Time:      rec.Timestamp,
		}
		if alt := rec.GetEnhancedAltitudeScaled(); !math.IsNaN(alt) {
			point.Elevation = saneElevation(alt)
		} else if alt := rec.GetAltitudeScaled(); !math.IsNaN(alt) {
			point.Elevation = saneElevation(alt)
		}
		if rec.HeartRate != math.MaxUint8 {
			point.HeartRate = intPtr(int(rec.HeartRate))
		}
		if rec.Cadence != math.MaxUint8 {
			point.Cadence = intPtr(int(rec.Cadence))
		}
		if rec.Power != math.MaxUint16 {
			point.Power = intPtr(int(rec.Power))
		}
		current = append(current, point)
	}
	if len(current) > 0 {
		out.Segments = append(out.Segments, track.Segment{Points: current})
	}
	return out, nil
}

// timerStops collects timestamps of timer stop events, sorted ascending.
func timerStops(events []*fit.EventMsg) []time.Time {
	var stops []time.Time
	for _, ev := range events {
		if ev == nil || ev.Event != fit.EventTimer {
			continue
		}
		if ev.EventType == fit.EventTypeStop || ev.EventType == fit.EventTypeStopAll {
			stops = append(stops, ev.Timestamp)
		}
	}
	sort.Slice(stops, func(i, j int) bool { return stops[i].Before(stops[j]) })
	return stops
}

// stoppedBetween reports whether a timer stop happened strictly between
// two record timestamps.
func stoppedBetween(stops []time.Time, from, to time.Time) bool {
	if from.IsZero() || to.IsZero() {
		return false
	}
	for _, s := range stops {
		if s.After(from) && s.Before(to) {
			return true
		}
	}
	return false
}
