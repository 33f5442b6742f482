package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	trackengine "github.com/lucasjlepore/track-engine"
	"github.com/lucasjlepore/track-engine/format"
)

func main() {
	var (
		jsonOut   = flag.Bool("json", false, "Emit the full workout as JSON")
		formatTag = flag.String("format", "", "Input format override (defaults to the file extension)")
		flat      = flag.Bool("flat", false, "Treat the activity as one without elevation gain")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <path-to-track-file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	filePath := flag.Arg(0)
	tag := *formatTag
	if tag == "" {
		tag = filepath.Ext(filePath)
	}
	f, err := format.ParseFormat(tag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "track_summary failed: %v\n", err)
		os.Exit(1)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "track_summary failed: %v\n", err)
		os.Exit(1)
	}

	engine := trackengine.New(trackengine.DefaultLimits())
	workout, err := engine.Ingest(context.Background(), data, f, trackengine.Options{
		SupportsElevation:     !*flat,
		StoppedSpeedThreshold: trackengine.DefaultStoppedSpeedThreshold,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "track_summary failed: %v\n", err)
		os.Exit(1)
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(workout); err != nil {
			fmt.Fprintf(os.Stderr, "json encode failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println(trackengine.BuildWorkoutSummary(workout))
}
