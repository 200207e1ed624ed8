package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/cartolab/riverlabel/httpserver"
	"github.com/cartolab/riverlabel/labeler"
	"github.com/cartolab/riverlabel/pyroscope"
	"github.com/cartolab/riverlabel/render"
	"github.com/cartolab/riverlabel/stats_collector"
)

const (
	APP_VERSION             = "1.1.0"
	DEFAULT_CONFIG_FILENAME = "configs/riverlabel.toml"
)

func usage(flagSet *flag.FlagSet, output io.Writer) {
	fmt.Fprintf(output, "** riverlabel %s -- label placement for river polygons **\n", APP_VERSION)
	fmt.Fprintf(output, "Usage: %s [-debug] [-help] [-f <config-filename>]\n", os.Args[0])
	fmt.Fprint(output, "\n")
	fmt.Fprint(output, "Options:\n")
	flagSet.SetOutput(output)
	flagSet.PrintDefaults()
	fmt.Fprint(output, "\n")
}

func main() {
	flagSet := flag.NewFlagSet(os.Args[0], flag.ExitOnError)

	helpFlag := flagSet.Bool("help", false, "help!")
	debugFlag := flagSet.Bool("debug", false, "override config and turn on debug logging")
	flagSet.BoolVar(helpFlag, "h", false, "help!")
	configFileFlag := flagSet.String("f", DEFAULT_CONFIG_FILENAME, "config file to use")

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

	configFilename := *configFileFlag
	cfg, err := LoadConfig(configFilename)
	if err != nil {
		log.Fatal(err)
	}

	if *debugFlag {
		cfg.Logging.Debug = true
	}

	logger := cfg.CreateLogger(true)
	logger.Infof("STARTUP: Version %s. Config loaded.", APP_VERSION)

	statsCollector := stats_collector.GetStatsCollector(cfg)
	logger.Infof("STARTUP: using %s stats collector", statsCollector.Name())

	if cfg.Pyroscope.Enabled() {
		if err := pyroscope.Run(cfg.Pyroscope); err != nil {
			logger.Errorf("STARTUP: Failed to initialize pyroscope: %v", err)
		} else {
			logger.Info("STARTUP: Initialized pyroscope")
		}
	}

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

	logger.Debugf("STARTUP: signal handler installed.")

	labelerManager := labeler.NewManager(logger)
	if err := labelerManager.LoadConfig(cfg.Labeler); err != nil {
		logger.Fatalf("failed to load config into labeler manager: %v", err)
	}

	logger.Debugf("STARTUP: labeler initialized.")

	renderer, err := render.NewRenderer(cfg.Render)
	if err != nil {
		logger.Fatalf("failed to create renderer: %v", err)
	}

	logger.Debugf("STARTUP: renderer initialized.")

	// render and http config apply at startup only. A reload picks up
	// labeler changes.
	reloadFn := func() error {
		cfg, err := LoadConfig(configFilename)
		if err != nil {
			return fmt.Errorf("failed to reload config file: %w", err)
		}
		err = labelerManager.LoadConfig(cfg.Labeler)
		if err != nil {
			return fmt.Errorf("failed to reload labeler manager: %w", err)
		}
		return nil
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer cancelFn()

		sig_ch := make(chan os.Signal, 1)
		signal.Notify(sig_ch, syscall.SIGHUP)
		for {
			select {
			case <-ctx.Done():
				// something else told us to exit
				return
			case sig := <-sig_ch:
				logger.Infof("received signal '%s' -- Reloading config.", sig.String())
				err := reloadFn()
				if err == nil {
					logger.Infof("labeler config reloaded")
				} else {
					logger.Error(err)
				}
			}
		}
	}()
	logger.Debugf("STARTUP: installed reload (SIGHUP) handler")

	httpServer, err := httpserver.NewHTTPServer(logger, labelerManager, renderer, statsCollector, reloadFn)
	if err != nil {
		logger.Fatalf("failed to create http server: %v", err)
	}

	logger.Infof("STARTUP: starting http server (final step)")
	err = httpServer.Run(ctx, cfg.HTTP.Addr, time.Second*5)
	if err != nil {
		logger.Fatalf("failed to run http server: %v", err)
	}

	// http server could have shut down early or not started. The defers
	// above will cancel and wait for things to shutdown cleanly.
}
