package trackengine

import (
	"fmt"
	"strings"
)

// BuildWorkoutSummary turns a computed workout into a short human-readable
// report, one metric group per line.
func BuildWorkoutSummary(w *Workout) string {
	if w == nil {
		return ""
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Workout %s", w.ID)
	if w.Creator != "" {
		fmt.Fprintf(&b, " (recorded with %s)", w.Creator)
	}
	b.WriteString("\n")

	fmt.Fprintf(
		&b,
		"Distance %.3f km | Duration %s (moving %s, paused %s)\n",
		w.DistanceKm,
		formatSeconds(w.DurationS),
		formatSeconds(w.MovingS),
		formatSeconds(w.PausedS),
	)
	fmt.Fprintf(&b, "Speed %.2f avg / %.2f max km/h\n", w.AvgSpeedKmh, w.MaxSpeedKmh)

	if w.AscentM != nil && w.DescentM != nil {
		fmt.Fprintf(&b, "Elevation +%.0f/-%.0f m", *w.AscentM, *w.DescentM)
		if w.MinElevationM != nil && w.MaxElevationM != nil {
			fmt.Fprintf(&b, " (min %.0f, max %.0f)", *w.MinElevationM, *w.MaxElevationM)
		}
		fmt.Fprintf(&b, " | Source %s\n", w.ElevationSource)
	}

	if w.Calories > 0 {
		fmt.Fprintf(&b, "Calories %d kcal\n", w.Calories)
	}
	fmt.Fprintf(&b, "Segments %d\n", len(w.Segments))
	for i := range w.Segments {
		s := &w.Segments[i]
		fmt.Fprintf(
			&b,
			"  #%d: %.3f km in %s, %.2f avg km/h",
			i+1,
			s.DistanceKm,
			formatSeconds(s.DurationS),
			s.AvgSpeedKmh,
		)
		if s.AvgHeartRate != nil {
			fmt.Fprintf(&b, ", HR %.0f avg", *s.AvgHeartRate)
		}
		if s.AvgCadence != nil {
			fmt.Fprintf(&b, ", cadence %.0f avg", *s.AvgCadence)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func formatSeconds(s int64) string {
	h := s / 3600
	m := (s % 3600) / 60
	sec := s % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%d:%02d", m, sec)
}
