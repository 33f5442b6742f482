package format

import (
	"encoding/xml"
	"strconv"
	"strings"
	"time"

	"github.com/lucasjlepore/track-engine/track"
)

// Only the track-recording KML subset is supported: a single Placemark
// holding a Track list (directly or via MultiTrack, plain or "gx"
// namespaced). Per-point biometrics travel in parallel ExtendedData arrays
// correlated by index with the coord list; short arrays are tolerated by
// skipping the missing indices.

type kmlFile struct {
	XMLName    xml.Name       `xml:"kml"`
	Document   *kmlDocument   `xml:"Document"`
	Placemarks []kmlPlacemark `xml:"Placemark"`
	Folders    []kmlFolder    `xml:"Folder"`
}

type kmlDocument struct {
	Name       string         `xml:"name"`
	Placemarks []kmlPlacemark `xml:"Placemark"`
	Folders    []kmlFolder    `xml:"Folder"`
}

type kmlFolder struct{}

type kmlPlacemark struct {
	Name       string         `xml:"name"`
	MultiTrack *kmlMultiTrack `xml:"MultiTrack"`
	Tracks     []kmlTrack     `xml:"Track"`
}

type kmlMultiTrack struct {
	Tracks []kmlTrack `xml:"Track"`
}

type kmlTrack struct {
	Whens  []string `xml:"when"`
	Coords []string `xml:"coord"`
	Ext    *kmlExt  `xml:"ExtendedData"`
}

type kmlExt struct {
	SchemaData []kmlSchemaData `xml:"SchemaData"`
}

type kmlSchemaData struct {
	Arrays []kmlSimpleArray `xml:"SimpleArrayData"`
}

type kmlSimpleArray struct {
	Name   string   `xml:"name,attr"`
	Values []string `xml:"value"`
}

func parseKML(data []byte) (*track.Track, error) {
	var f kmlFile
	if err := xml.Unmarshal(data, &f); err != nil {
		return nil, &ParseError{Format: KML, Reason: "malformed file", Err: err}
	}

	placemarks := f.Placemarks
	folders := f.Folders
	name := ""
	if f.Document != nil {
		placemarks = append(placemarks, f.Document.Placemarks...)
		folders = append(folders, f.Document.Folders...)
		name = f.Document.Name
	}
	if len(folders) > 0 || len(placemarks) != 1 {
		return nil, &ParseError{Format: KML, Reason: "unsupported kml file"}
	}

	placemark := placemarks[0]
	tracks := placemark.Tracks
	if placemark.MultiTrack != nil {
		tracks = placemark.MultiTrack.Tracks
	}
	if len(tracks) == 0 {
		return nil, &ParseError{Format: KML, Reason: "no tracks in file"}
	}
	if name == "" {
		name = placemark.Name
	}

	out := &track.Track{Creator: name}
	for _, kt := range tracks {
		out.Segments = append(out.Segments, track.Segment{Points: kmlTrackPoints(kt)})
	}
	return out, nil
}

func kmlTrackPoints(kt kmlTrack) []track.Point {
	points := make([]track.Point, 0, len(kt.Coords))
	for i, coord := range kt.Coords {
		fields := strings.Fields(coord)
		if len(fields) < 2 {
			continue
		}
		lon, errLon := strconv.ParseFloat(fields[0], 64)
		lat, errLat := strconv.ParseFloat(fields[1], 64)
		if errLon != nil || errLat != nil {
			continue
		}

		point := track.Point{Longitude: lon, Latitude: lat}
		if len(fields) >= 3 {
			if ele, err := strconv.ParseFloat(fields[2], 64); err == nil {
				point.Elevation = saneElevation(ele)
			}
		}
		if i < len(kt.Whens) {
			if ts, err := time.Parse(time.RFC3339, kt.Whens[i]); err == nil {
				point.Time = ts
			}
		}
		point.HeartRate = kmlArrayValue(kt.Ext, i, "heartrate", "heart_rate")
		point.Cadence = kmlArrayValue(kt.Ext, i, "cadence")
		point.Power = kmlArrayValue(kt.Ext, i, "power")

		points = append(points, point)
	}
	return points
}

// kmlArrayValue looks up index i in the first SimpleArrayData whose name
// matches one of names. Indices beyond the array length mean "no sample".
func kmlArrayValue(ext *kmlExt, i int, names ...string) *int {
	if ext == nil {
		return nil
	}
	for _, schema := range ext.SchemaData {
		for _, arr := range schema.Arrays {
			if !matchesName(arr.Name, names) {
				continue
			}
			if i >= len(arr.Values) {
				return nil
			}
			v, err := strconv.Atoi(strings.TrimSpace(arr.Values[i]))
			if err != nil {
				return nil
			}
			return &v
		}
	}
	return nil
}

func matchesName(name string, candidates []string) bool {
	name = strings.ToLower(name)
	for _, c := range candidates {
		if name == c {
			return true
		}
	}
	return false
}
