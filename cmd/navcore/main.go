package main

import (
	"flag"
	"os"
	"time"

	"github.com/navcore/navcore/pkg/datastructure"
	"github.com/navcore/navcore/pkg/engine"
	"github.com/navcore/navcore/pkg/logger"
	"go.uber.org/zap"
)

var (
	osmPath  = flag.String("osm", "./data/map.osm", "path to an OSM XML 0.6 extract")
	destLat  = flag.Float64("dest_lat", 0, "destination latitude")
	destLon  = flag.Float64("dest_lon", 0, "destination longitude")
	fixLat   = flag.Float64("fix_lat", 0, "initial fix latitude")
	fixLon   = flag.Float64("fix_lon", 0, "initial fix longitude")
	devLog   = flag.Bool("dev", false, "use a human-readable development logger")
)

func main() {
	flag.Parse()

	log, err := buildLogger(*devLog)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	start := time.Now()
	nav := engine.New(log, func() float64 {
		return time.Since(start).Seconds()
	})

	f, err := os.Open(*osmPath)
	if err != nil {
		log.Fatal("failed to open osm extract", zap.Error(err))
	}
	defer f.Close()

	if !nav.LoadOSM(f) {
		log.Fatal("osm ingestion failed", zap.String("path", *osmPath))
	}

	nav.SetDestination(datastructure.LatLon{Lat: *destLat, Lon: *destLon})

	result := nav.UpdateLocation(datastructure.RawFix{
		LatLon: datastructure.LatLon{Lat: *fixLat, Lon: *fixLon},
	})

	log.Info("initial match",
		zap.String("street_name", result.StreetName),
		zap.String("next_maneuver", result.NextManeuver.String()),
		zap.Uint32("distance_to_next_m", result.DistanceToNextM))
}

func buildLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return logger.NewDevelopment()
	}
	return logger.New()
}
