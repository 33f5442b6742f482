package format

import (
	"encoding/xml"
	"time"

	"github.com/lucasjlepore/track-engine/track"
)

// TCX nests points four levels deep (Activities > Laps > Tracks >
// Trackpoints). The canonical mapping flattens each Activity into one
// segment, preserving point order across its laps and tracks.

type tcxFile struct {
	XMLName    xml.Name        `xml:"TrainingCenterDatabase"`
	Activities []tcxActivities `xml:"Activities"`
	Author     tcxSource       `xml:"Author"`
}

type tcxActivities struct {
	Activities []tcxActivity `xml:"Activity"`
}

type tcxActivity struct {
	Sport   string    `xml:"Sport,attr"`
	Laps    []tcxLap  `xml:"Lap"`
	Creator tcxSource `xml:"Creator"`
}

type tcxSource struct {
	Name string `xml:"Name"`
}

type tcxLap struct {
	Calories int        `xml:"Calories"`
	Tracks   []tcxTrack `xml:"Track"`
}

type tcxTrack struct {
	Points []tcxTrackpoint `xml:"Trackpoint"`
}

type tcxTrackpoint struct {
	Time      time.Time    `xml:"Time"`
	Position  *tcxPosition `xml:"Position"`
	Altitude  *float64     `xml:"AltitudeMeters"`
	HeartRate *tcxValue    `xml:"HeartRateBpm"`
	Cadence   *int         `xml:"Cadence"`
	Ext       tcxPointExt  `xml:"Extensions"`
}

type tcxPosition struct {
	Latitude  float64 `xml:"LatitudeDegrees"`
	Longitude float64 `xml:"LongitudeDegrees"`
}

type tcxValue struct {
	Value int `xml:"Value"`
}

// tcxPointExt carries the TPX extension block. Watts and RunCadence are
// vendor extension tags normalized onto the canonical power/cadence fields.
type tcxPointExt struct {
	TPX tcxTPX `xml:"TPX"`
}

type tcxTPX struct {
	Watts      *int `xml:"Watts"`
	RunCadence *int `xml:"RunCadence"`
}

func parseTCX(data []byte) (*track.Track, error) {
	var f tcxFile
	if err := xml.Unmarshal(data, &f); err != nil {
		return nil, &ParseError{Format: TCX, Reason: "malformed file", Err: err}
	}
	if len(f.Activities) == 0 {
		return nil, &ParseError{Format: TCX, Reason: "no activities in file"}
	}

	out := &track.Track{Creator: f.Author.Name}
	for _, wrapper := range f.Activities {
		for _, activity := range wrapper.Activities {
			if out.Creator == "" {
				out.Creator = activity.Creator.Name
			}
			var points []track.Point
			for _, lap := range activity.Laps {
				out.Calories += lap.Calories
				for _, trk := range lap.Tracks {
					for _, tp := range trk.Points {
						if tp.Position == nil {
							continue
						}
						point := track.Point{
							Longitude: tp.Position.Longitude,
							Latitude:  tp.Position.Latitude,
							Time:      tp.Time,
						}
						if tp.Altitude != nil {
							point.Elevation = saneElevation(*tp.Altitude)
						}
						if tp.HeartRate != nil {
							point.HeartRate = intPtr(tp.HeartRate.Value)
						}
						switch {
						case tp.Cadence != nil:
							point.Cadence = tp.Cadence
						case tp.Ext.TPX.RunCadence != nil:
							point.Cadence = tp.Ext.TPX.RunCadence
						}
						if tp.Ext.TPX.Watts != nil {
							point.Power = tp.Ext.TPX.Watts
						}
						points = append(points, point)
					}
				}
			}
			// An activity without usable points is skipped; the file only
			// fails when no activity yields a valid segment.
			if len(points) > 0 {
				out.Segments = append(out.Segments, track.Segment{Points: points})
			}
		}
	}
	if len(out.Segments) == 0 {
		return nil, &track.NoValidSegmentsError{}
	}
	return out, nil
}
