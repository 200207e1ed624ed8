package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/cartolab/riverlabel/fetcher"
	"github.com/cartolab/riverlabel/geo"
	"github.com/cartolab/riverlabel/overpass"
)

const (
	APP_VERSION             = "1.1.0"
	DEFAULT_CONFIG_FILENAME = "configs/riverlabel.toml"
)

func usage(flagSet *flag.FlagSet, output io.Writer) {
	fmt.Fprintf(output, "** riverlabel-fetcher %s -- pull river polygons from overpass **\n", APP_VERSION)
	fmt.Fprintf(output, "Usage: %s [-help] [-debug] [-f configfile] [-out dir] [-names list] (-bbox <bbox> | -fences <filename>)\n", os.Args[0])
	fmt.Fprint(output, "\n")
	fmt.Fprintf(output, "%s queries overpass for named water bodies and writes one WKT file ", os.Args[0])
	fmt.Fprint(output, "per river, ready to feed to the labeling service.\n")
	fmt.Fprint(output, "\n")
	fmt.Fprint(output, "Options:\n")
	flagSet.SetOutput(output)
	flagSet.PrintDefaults()
	fmt.Fprint(output, "\nExamples:\n")
	fmt.Fprintf(output, "%s -bbox 9.7,53.4,10.3,53.7\n", os.Args[0])
	fmt.Fprintf(output, "%s -fences fences.json -out ./rivers\n", os.Args[0])
	fmt.Fprint(output, "\n")
}

func parseBBox(s string) (orb.Bound, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return orb.Bound{}, errors.New("bbox needs 4 comma-separated values: minLon,minLat,maxLon,maxLat")
	}

	vals := make([]float64, 4)
	for idx, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return orb.Bound{}, fmt.Errorf("bad bbox value '%s'", part)
		}
		vals[idx] = v
	}

	bound := orb.Bound{
		Min: orb.Point{vals[0], vals[1]},
		Max: orb.Point{vals[2], vals[3]},
	}
	if bound.Min[0] >= bound.Max[0] || bound.Min[1] >= bound.Max[1] {
		return orb.Bound{}, errors.New("bbox min must be less than max")
	}

	return bound, nil
}

func main() {
	flagSet := flag.NewFlagSet(os.Args[0], flag.ExitOnError)

	helpFlag := flagSet.Bool("help", false, "help!")
	debugFlag := flagSet.Bool("debug", false, "override config and turn on debug logging")
	flagSet.BoolVar(helpFlag, "h", false, "help!")
	configFileFlag := flagSet.String("f", DEFAULT_CONFIG_FILENAME, "config file to use")
	bboxFlag := flagSet.String("bbox", "", "fetch a single bounding box: minLon,minLat,maxLon,maxLat")
	fencesFlag := flagSet.String("fences", "", "fetch each region in a geofences json file")
	outFlag := flagSet.String("out", "", "override the configured output dir")
	namesFlag := flagSet.String("names", "", "keep only these river names (comma-separated)")

	err := flagSet.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s", err)
		usage(flagSet, os.Stderr)
		os.Exit(2)
	}

	if *helpFlag {
		usage(flagSet, os.Stdout)
		os.Exit(0)
	}

	if len(flagSet.Args()) != 0 {
		usage(flagSet, os.Stderr)
		os.Exit(1)
	}

	if (*bboxFlag == "") == (*fencesFlag == "") {
		fmt.Fprint(os.Stderr, "Error: exactly one of -bbox or -fences is required\n")
		fmt.Fprintf(os.Stderr, "Try %s -help for help.\n", os.Args[0])
		os.Exit(1)
	}

	cfg, err := LoadConfig(*configFileFlag)
	if err != nil {
		log.Fatal(err)
	}

	if *debugFlag {
		cfg.Logging.Debug = true
	}
	if *outFlag != "" {
		cfg.Fetcher.OutputDir = *outFlag
	}
	if *namesFlag != "" {
		cfg.Fetcher.Names = nil
		for _, name := range strings.Split(*namesFlag, ",") {
			if name = strings.TrimSpace(name); name != "" {
				cfg.Fetcher.Names = append(cfg.Fetcher.Names, name)
			}
		}
	}

	logger := cfg.CreateLogger()
	logger.Infof("STARTUP: Version %s. Config loaded.", APP_VERSION)

	var areas []*geojson.Feature

	if *bboxFlag != "" {
		bound, err := parseBBox(*bboxFlag)
		if err != nil {
			logger.Fatalf("bad -bbox: %v", err)
		}
		feature := geojson.NewFeature(bound.ToPolygon())
		feature.Properties["name"] = "bbox"
		areas = []*geojson.Feature{feature}
	} else {
		areas, err = geo.LoadGeofencesFile(*fencesFlag)
		if err != nil {
			logger.Fatalf("bad -fences: %v", err)
		}
		if len(areas) == 0 {
			logger.Fatalf("no geofences found in '%s'", *fencesFlag)
		}
	}

	logger.Infof("STARTUP: %d area(s) to fetch", len(areas))

	var wg sync.WaitGroup
	defer wg.Wait()

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer cancelFn()

		sig_ch := make(chan os.Signal, 1)
		signal.Notify(sig_ch, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-ctx.Done():
			// something else told us to exit
		case sig := <-sig_ch:
			logger.Infof("received signal '%s'", sig.String())
		}
	}()

	overpassCli, err := overpass.NewClient(logger, cfg.Overpass.Url)
	if err != nil {
		logger.Fatalf("failed to create overpass client: %v", err)
	}

	riverFetcher, err := fetcher.NewFetcher(logger, cfg.Fetcher, overpassCli)
	if err != nil {
		logger.Fatalf("failed to create fetcher: %v", err)
	}

	total := 0

	for _, area := range areas {
		areaName, _ := area.Properties["name"].(string)

		logger.Infof("Fetching rivers for area '%s'...", areaName)

		rivers, err := riverFetcher.FetchArea(ctx, area)
		if err != nil {
			logger.Fatalf("failed to fetch area '%s': %v", areaName, err)
		}

		written, err := riverFetcher.WriteRivers(rivers)
		if err != nil {
			logger.Fatalf("failed to write rivers for area '%s': %v", areaName, err)
		}

		logger.Infof("area '%s': %d river(s) written", areaName, written)
		total += written
	}

	logger.Infof("Done. %d file(s) written.", total)
}
