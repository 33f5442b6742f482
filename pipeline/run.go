// Package pipeline runs one file through the track engine and writes the
// computed point records and workout summary to disk for downstream
// analysis tooling.
package pipeline

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	trackengine "github.com/lucasjlepore/track-engine"
	"github.com/lucasjlepore/track-engine/format"
)

// Run executes the full ingestion pipeline and writes all artifacts.
func Run(ctx context.Context, engine *trackengine.Engine, opts Options) (*Result, error) {
	if strings.TrimSpace(opts.Path) == "" {
		return nil, fmt.Errorf("input path is required")
	}
	if strings.TrimSpace(opts.OutDir) == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	output := strings.ToLower(strings.TrimSpace(opts.Output))
	if output == "" {
		output = "parquet"
	}
	if output != "parquet" && output != "csv" {
		return nil, fmt.Errorf("unsupported output %q (expected parquet|csv)", output)
	}

	tag := opts.FormatTag
	if tag == "" {
		tag = filepath.Ext(opts.Path)
	}
	f, err := format.ParseFormat(tag)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("read track file: %w", err)
	}

	if err := prepareOutDir(opts.OutDir, opts.Overwrite); err != nil {
		return nil, err
	}

	workout, err := engine.Ingest(ctx, data, f, trackengine.Options{
		SupportsElevation:     opts.SupportsElevation,
		StoppedSpeedThreshold: opts.StoppedSpeedThreshold,
		UseRawSpeed:           opts.UseRawSpeed,
	})
	if err != nil {
		return nil, fmt.Errorf("ingest %s: %w", filepath.Base(opts.Path), err)
	}

	rows := flattenRecords(workout)
	recordsPath := filepath.Join(opts.OutDir, "point_records."+output)
	switch output {
	case "csv":
		if err := writeRecordsCSV(recordsPath, rows); err != nil {
			return nil, fmt.Errorf("write point records csv: %w", err)
		}
	case "parquet":
		if err := writeRecordsParquet(recordsPath, rows); err != nil {
			return nil, fmt.Errorf("write point records parquet: %w", err)
		}
	}

	summaryPath := filepath.Join(opts.OutDir, "workout_summary.json")
	if err := writeJSON(summaryPath, workout); err != nil {
		return nil, fmt.Errorf("write workout summary: %w", err)
	}

	return &Result{
		OutputDir:        opts.OutDir,
		PointRecordsPath: recordsPath,
		SummaryPath:      summaryPath,
	}, nil
}

func prepareOutDir(dir string, overwrite bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if overwrite {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		return fmt.Errorf("output directory %s is not empty", dir)
	}
	return nil
}

func flattenRecords(w *trackengine.Workout) []pointRow {
	var rows []pointRow
	for si := range w.Segments {
		for _, rec := range w.Segments[si].Records {
			rows = append(rows, pointRow{
				SegmentIndex: si,
				DistanceM:    rec.DistanceM,
				ElapsedS:     rec.ElapsedS,
				ElevationM:   rec.ElevationM,
				Lat:          rec.Lat,
				Lon:          rec.Lon,
				SpeedKmh:     rec.SpeedKmh,
				PaceSPerM:    rec.PaceSPerM,
				HeartRate:    rec.HeartRate,
				Cadence:      rec.Cadence,
				Power:        rec.Power,
			})
		}
	}
	return rows
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeRecordsCSV(path string, rows []pointRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"segment_index", "distance_m", "elapsed_s", "elevation_m", "lat", "lon",
		"speed_kmh", "pace_s_per_m", "heart_rate", "cadence", "power",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		row := []string{
			strconv.Itoa(r.SegmentIndex),
			formatFloat(r.DistanceM),
			strconv.FormatInt(r.ElapsedS, 10),
			formatFloatPtr(r.ElevationM),
			formatFloat(r.Lat),
			formatFloat(r.Lon),
			formatFloat(r.SpeedKmh),
			formatFloat(r.PaceSPerM),
			formatIntPtr(r.HeartRate),
			formatIntPtr(r.Cadence),
			formatIntPtr(r.Power),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func formatIntPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
