package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/exebyp-rgb/celebgo/internal/config"
	"github.com/exebyp-rgb/celebgo/internal/index"
	"github.com/exebyp-rgb/celebgo/internal/metrics"
	"github.com/exebyp-rgb/celebgo/internal/model"
	"github.com/exebyp-rgb/celebgo/internal/sink"
	"github.com/exebyp-rgb/celebgo/internal/source"
	"github.com/exebyp-rgb/celebgo/internal/util"
)

// Version is set at build time via -ldflags "-X main.Version=..."
var Version = "dev"

func main() {
	var (
		cfgPath = flag.String("config", "config.yml", "path to YAML config")
		outDir  = flag.String("out", "", "snapshot directory (overrides output.dir)")
	)
	flag.Parse()

	log.Printf("celebgo pipeline %s starting...", Version)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}
	if cfg.Metrics.Listen != "" {
		metrics.Serve(cfg.Metrics.Listen)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	limiter := util.NewLimiter(cfg.Fetch.MaxConcurrent, cfg.Fetch.MinInterval.Std())
	src := source.NewTicketmaster(cfg.API, cfg.Fetch, limiter)

	if err := run(ctx, cfg, src); err != nil {
		log.Fatalf("pipeline: %v", err)
	}
}

// run executes one complete generation: fetch every shard, sort, build
// the derived indexes and write the snapshot. Per-record and per-shard
// failures were already absorbed upstream; an error here is fatal.
func run(ctx context.Context, cfg config.Config, src source.Source) error {
	start := time.Now()
	log.Printf("countries: %v", cfg.Fetch.Countries)
	log.Printf("days ahead: %d", cfg.Fetch.DaysAhead)

	events, err := src.Fetch(ctx)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		log.Printf("no events fetched, exiting")
		return nil
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartDateTime < events[j].StartDateTime
	})

	geo := index.GeoJSON(events)
	cities := index.Cities(events)
	artists := index.Artists(events)

	manifest := model.Manifest{
		UpdatedAt:    time.Now().UTC().Format(time.RFC3339),
		DaysAhead:    cfg.Fetch.DaysAhead,
		EventsCount:  len(events),
		CitiesCount:  len(cities),
		ArtistsCount: len(artists),
		Source:       []string{src.Name()},
	}

	if err := sink.NewFiles(cfg.Output.Dir).WriteSnapshot(events, geo, cities, artists, manifest); err != nil {
		return err
	}

	log.Printf("events: %d, cities: %d, artists: %d", len(events), len(cities), len(artists))
	if cfg.Metrics.Enable {
		if snap := metrics.Dump(); snap != "" {
			log.Printf("metrics snapshot:\n%s", snap)
		}
	}
	log.Printf("data fetch completed in %s", time.Since(start).Truncate(time.Millisecond))
	return nil
}
