package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	trackengine "github.com/lucasjlepore/track-engine"
	"github.com/lucasjlepore/track-engine/elevation"
	"github.com/lucasjlepore/track-engine/pipeline"
)

func main() {
	var (
		inPath    = flag.String("in", "", "Path to input track file (gpx, tcx, kml, kmz or fit)")
		outDir    = flag.String("out", "", "Output directory")
		formatTag = flag.String("format", "", "Input format override (defaults to the file extension)")
		output    = flag.String("output", "parquet", "Point record output format: parquet|csv")
		threshold = flag.Float64("stopped-threshold", trackengine.DefaultStoppedSpeedThreshold, "Stopped speed threshold in km/h")
		rawSpeed  = flag.Bool("raw-speed", false, "Report the raw maximum interval speed instead of the trimmed one")
		flat      = flag.Bool("flat", false, "Treat the activity as one without elevation gain (skips ascent/descent)")
		overwrite = flag.Bool("overwrite", true, "Allow writing into non-empty output directories")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s --in track.gpx --out outdir [--format gpx] [--output parquet|csv]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if strings.TrimSpace(*inPath) == "" || strings.TrimSpace(*outDir) == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()

	var resolvers []elevation.Resolver
	if baseURL := os.Getenv("ELEVATION_SERVICE_URL"); baseURL != "" {
		resolvers = append(resolvers, elevation.NewOpenElevationClient(baseURL))
	}
	engine := trackengine.New(trackengine.DefaultLimits(), resolvers...)

	result, err := pipeline.Run(context.Background(), engine, pipeline.Options{
		Path:                  *inPath,
		OutDir:                *outDir,
		FormatTag:             *formatTag,
		Output:                *output,
		StoppedSpeedThreshold: *threshold,
		UseRawSpeed:           *rawSpeed,
		SupportsElevation:     !*flat,
		Overwrite:             *overwrite,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "track_ingest failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("track_ingest complete\n")
	fmt.Printf("Output dir:      %s\n", result.OutputDir)
	fmt.Printf("point records:   %s\n", result.PointRecordsPath)
	fmt.Printf("workout summary: %s\n", result.SummaryPath)
}
