package pipeline

import (
	"math"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

type recordParquetRow struct {
	SegmentIndex int64   `parquet:"name=segment_index, type=INT64"`
	DistanceM    float64 `parquet:"name=distance_m, type=DOUBLE"`
	ElapsedS     int64   `parquet:"name=elapsed_s, type=INT64"`
	ElevationM   float64 `parquet:"name=elevation_m, type=DOUBLE"`
	Lat          float64 `parquet:"name=lat, type=DOUBLE"`
	Lon          float64 `parquet:"name=lon, type=DOUBLE"`
	SpeedKmh     float64 `parquet:"name=speed_kmh, type=DOUBLE"`
	PaceSPerM    float64 `parquet:"name=pace_s_per_m, type=DOUBLE"`
	HeartRate    float64 `parquet:"name=heart_rate, type=DOUBLE"`
	Cadence      float64 `parquet:"name=cadence, type=DOUBLE"`
	Power        float64 `parquet:"name=power, type=DOUBLE"`
}

func writeRecordsParquet(path string, rows []pointRow) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	pw, err := writer.NewParquetWriter(fw, new(recordParquetRow), 4)
	if err != nil {
		_ = fw.Close()
		return err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, r := range rows {
		row := recordParquetRow{
			SegmentIndex: int64(r.SegmentIndex),
			DistanceM:    r.DistanceM,
			ElapsedS:     r.ElapsedS,
			ElevationM:   valueOrNaN(r.ElevationM),
			Lat:          r.Lat,
			Lon:          r.Lon,
			SpeedKmh:     r.SpeedKmh,
			PaceSPerM:    r.PaceSPerM,
			HeartRate:    intOrNaN(r.HeartRate),
			Cadence:      intOrNaN(r.Cadence),
			Power:        intOrNaN(r.Power),
		}
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			_ = fw.Close()
			return err
		}
	}
	if err := pw.WriteStop(); err != nil {
		_ = fw.Close()
		return err
	}
	return fw.Close()
}

func valueOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

func intOrNaN(v *int) float64 {
	if v == nil {
		return math.NaN()
	}
	return float64(*v)
}
