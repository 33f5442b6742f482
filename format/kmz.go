package format

import (
	"archive/zip"
	"bytes"
	"io"

	"github.com/lucasjlepore/track-engine/track"
)

// kmzDocName is the archive entry KMZ producers are required to put the
// root document under.
const kmzDocName = "doc.kml"

// parseKMZ unwraps the zip archive's doc.kml entry and delegates to the
// KML adapter.
func parseKMZ(data []byte) (*track.Track, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ParseError{Format: KMZ, Reason: "not a zip archive", Err: err}
	}

	for _, entry := range zr.File {
		if entry.Name != kmzDocName {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return nil, &ParseError{Format: KMZ, Reason: "cannot open " + kmzDocName, Err: err}
		}
		doc, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, &ParseError{Format: KMZ, Reason: "cannot read " + kmzDocName, Err: err}
		}
		return parseKML(doc)
	}
	return nil, &ParseError{Format: KMZ, Reason: "missing " + kmzDocName + " entry"}
}
