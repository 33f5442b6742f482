package pipeline

// Options configures the track ingestion pipeline.
type Options struct {
	// Path is the input track file (gpx, tcx, kml, kmz, or fit).
	Path string

	// OutDir receives the generated artifacts.
	OutDir string

	// FormatTag overrides format detection; empty means "derive from the
	// file extension of Path".
	FormatTag string

	// Output selects the point-record artifact format: parquet|csv.
	Output string

	StoppedSpeedThreshold float64
	UseRawSpeed           bool
	SupportsElevation     bool

	// Overwrite allows writing into a non-empty output directory.
	Overwrite bool
}

// Result returns generated output paths.
type Result struct {
	OutputDir        string `json:"output_dir"`
	PointRecordsPath string `json:"point_records_path"`
	SummaryPath      string `json:"summary_path"`
}

// pointRow is one flattened per-point record, tagged with its segment.
type pointRow struct {
	SegmentIndex int
	DistanceM    float64
	ElapsedS     int64
	ElevationM   *float64
	Lat          float64
	Lon          float64
	SpeedKmh     float64
	PaceSPerM    float64
	HeartRate    *int
	Cadence      *int
	Power        *int
}
