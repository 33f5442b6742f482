package format

import (
	"github.com/tkrajina/gpxgo/gpx"

	"github.com/lucasjlepore/track-engine/track"
)

// parseGPX converts GPX bytes into a canonical track. The file's first
// track is the logical activity; its segments map one-to-one onto canonical
// segments.
func parseGPX(data []byte) (*track.Track, error) {
	g, err := gpx.ParseBytes(data)
	if err != nil {
		return nil, &ParseError{Format: GPX, Reason: "malformed file", Err: err}
	}
	if len(g.Tracks) == 0 {
		return nil, &ParseError{Format: GPX, Reason: "no tracks in file"}
	}

	out := &track.Track{Creator: g.Creator}
	src := g.Tracks[0]
	for _, seg := range src.Segments {
		points := make([]track.Point, 0, len(seg.Points))
		for _, p := range seg.Points {
			point := track.Point{
				Longitude: p.Longitude,
				Latitude:  p.Latitude,
				Time:      p.Timestamp,
			}
			if p.Elevation.NotNull() {
				point.Elevation = saneElevation(p.Elevation.Value())
			}
			points = append(points, point)
		}
		out.Segments = append(out.Segments, track.Segment{Points: points})
	}
	return out, nil
}
