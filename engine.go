package trackengine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lucasjlepore/track-engine/elevation"
	"github.com/lucasjlepore/track-engine/format"
	"github.com/lucasjlepore/track-engine/track"
)

// Engine turns raw track files into computed workouts. It is stateless
// between invocations and safe for concurrent use; each call operates on
// its own canonical track and output aggregate.
type Engine struct {
	Limits Limits

	// resolvers maps elevation service IDs to their clients. Resolution
	// is best-effort: a missing or failing resolver degrades to "no
	// elevation", never to an ingestion failure.
	resolvers map[string]elevation.Resolver
}

// New returns an engine with the given limits and elevation resolvers.
func New(limits Limits, resolvers ...elevation.Resolver) *Engine {
	e := &Engine{
		Limits:    limits,
		resolvers: make(map[string]elevation.Resolver, len(resolvers)),
	}
	for _, r := range resolvers {
		e.resolvers[r.ServiceID()] = r
	}
	return e
}

// Options carries the per-call ingestion context supplied by the caller.
type Options struct {
	// SupportsElevation is the sport's elevation capability; without it
	// ascent/descent stay unset and no elevation lookup is attempted.
	SupportsElevation bool

	// StoppedSpeedThreshold in km/h; zero means
	// DefaultStoppedSpeedThreshold.
	StoppedSpeedThreshold float64

	// UseRawSpeed disables interval-speed outlier trimming for max speed.
	UseRawSpeed bool

	// ElevationPreference is the configured external service ID, empty
	// when none is configured.
	ElevationPreference string

	// FetchElevationOnRefresh enables re-resolving elevation on refresh
	// when prior values cannot be reused.
	FetchElevationOnRefresh bool

	// ElevationSourceChange is an explicit caller request on refresh:
	// elevation.SourceFile to reset to file elevation, a service ID to
	// force that service, empty for no change.
	ElevationSourceChange string
}

// Ingest builds a new workout from freshly uploaded file bytes. On any
// error nothing is created.
func (e *Engine) Ingest(ctx context.Context, data []byte, f format.Format, opts Options) (*Workout, error) {
	t, err := format.Parse(data, f)
	if err != nil {
		return nil, err
	}

	decision := elevation.Decide(elevation.Input{
		IsNew:             true,
		SupportsElevation: opts.SupportsElevation,
		FileHasGaps:       t.MissingElevation(),
		Preference:        opts.ElevationPreference,
	})
	source := e.applyElevation(ctx, t, decision, nil)

	segments, err := e.computeSegments(ctx, t, computeOptions{
		supportsElevation:     opts.SupportsElevation,
		stoppedSpeedThreshold: opts.StoppedSpeedThreshold,
		useRawSpeed:           opts.UseRawSpeed,
	})
	if err != nil {
		return nil, err
	}

	w := &Workout{
		ID:              uuid.NewString(),
		Creator:         t.Creator,
		Calories:        t.Calories,
		ElevationSource: source,
		Segments:        segments,
	}
	w.recomputeRollups()
	if err := e.Limits.CheckWorkout(w); err != nil {
		return nil, err
	}
	return w, nil
}

// Refresh re-runs parsing and computation for an existing workout,
// preserving its identity and reusing prior elevation data where the
// decision table allows. The workout is mutated only if the whole
// computation and validation succeed; on error it is left entirely
// unchanged.
func (e *Engine) Refresh(ctx context.Context, w *Workout, data []byte, f format.Format, opts Options) error {
	t, err := format.Parse(data, f)
	if err != nil {
		return err
	}

	cache, complete := priorElevation(w)
	decision := elevation.Decide(elevation.Input{
		IsNew:             false,
		SupportsElevation: opts.SupportsElevation,
		FileHasGaps:       t.MissingElevation(),
		PriorSource:       w.ElevationSource,
		ExplicitChange:    opts.ElevationSourceChange,
		Preference:        opts.ElevationPreference,
		CacheComplete:     complete,
		FetchOnRefresh:    opts.FetchElevationOnRefresh,
	})
	source := e.applyElevation(ctx, t, decision, cache)

	segments, err := e.computeSegments(ctx, t, computeOptions{
		supportsElevation:     opts.SupportsElevation,
		stoppedSpeedThreshold: opts.StoppedSpeedThreshold,
		useRawSpeed:           opts.UseRawSpeed,
	})
	if err != nil {
		return err
	}

	next := *w
	next.Creator = t.Creator
	next.Calories = t.Calories
	next.ElevationSource = source
	next.Segments = segments
	next.recomputeRollups()
	if err := e.Limits.CheckWorkout(&next); err != nil {
		return err
	}

	*w = next
	return nil
}

// priorElevation collects the existing segments' elevation values into a
// lookup cache keyed by (timestamp, lat, lon). The cache lives for one
// refresh call only. complete is true when every stored record carries a
// value.
func priorElevation(w *Workout) (*elevation.Cache, bool) {
	cache := elevation.NewCache()
	complete := true
	for i := range w.Segments {
		seg := &w.Segments[i]
		for _, rec := range seg.Records {
			if rec.ElevationM == nil {
				complete = false
				continue
			}
			ts := seg.StartAt.Add(time.Duration(rec.ElapsedS) * time.Second)
			cache.Put(ts, rec.Lat, rec.Lon, *rec.ElevationM)
		}
	}
	if cache.Len() == 0 {
		complete = false
	}
	return cache, complete
}

// applyElevation executes the elevation decision against the parsed track
// and returns the source to record on the workout. External failures
// degrade to the file source; they never abort the ingestion.
func (e *Engine) applyElevation(ctx context.Context, t *track.Track, decision elevation.Decision, cache *elevation.Cache) string {
	switch decision.Action {
	case elevation.ActionKeepFile:
		return elevation.SourceFile

	case elevation.ActionReuseCache:
		if cache == nil {
			return elevation.SourceFile
		}
		for si := range t.Segments {
			points := t.Segments[si].Points
			for pi := range points {
				p := &points[pi]
				if !p.HasTime() {
					continue
				}
				if v, ok := cache.Get(p.Time, p.Latitude, p.Longitude); ok {
					ele := v
					p.Elevation = &ele
				}
			}
		}
		return decision.Source

	case elevation.ActionResolve:
		resolver, ok := e.resolvers[decision.Service]
		if !ok {
			return elevation.SourceFile
		}
		if e.resolveElevation(ctx, t, resolver) {
			return decision.Source
		}
		return elevation.SourceFile
	}
	return elevation.SourceFile
}

// resolveElevation requests values for every point and reports whether at
// least one value was applied.
func (e *Engine) resolveElevation(ctx context.Context, t *track.Track, resolver elevation.Resolver) bool {
	var coords []elevation.Coordinate
	for si := range t.Segments {
		for pi := range t.Segments[si].Points {
			p := &t.Segments[si].Points[pi]
			coords = append(coords, elevation.Coordinate{Latitude: p.Latitude, Longitude: p.Longitude})
		}
	}

	values, err := resolver.Resolve(ctx, coords)
	if err != nil || len(values) == 0 {
		return false
	}

	applied := false
	idx := 0
	for si := range t.Segments {
		points := t.Segments[si].Points
		for pi := range points {
			if idx < len(values) && values[idx] != nil {
				ele := *values[idx]
				points[pi].Elevation = &ele
				applied = true
			}
			idx++
		}
	}
	return applied
}
