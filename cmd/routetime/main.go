// Command routetime adds travel time and distance columns to a CSV or XLSX
// file of origin/destination coordinates.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"travel-time-service/internal/adapters/repositories"
	"travel-time-service/internal/adapters/routing"
	"travel-time-service/internal/config"
	"travel-time-service/internal/departure"
	"travel-time-service/internal/domain"
	"travel-time-service/internal/platform/db"
	"travel-time-service/internal/platform/logger"
	"travel-time-service/internal/services"
	"travel-time-service/internal/table"

	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "routetime:", err)
		os.Exit(1)
	}
}

type cliFlags struct {
	in, out, sheet string
	mode, traffic  string
	departure      string
	delay          time.Duration
	cols           services.ColumnMap
	apiKey         string
	provider       string
	quiet          bool
}

func parseFlags(args []string, stderr io.Writer, delayDefault time.Duration) (cliFlags, error) {
	var f cliFlags
	def := services.DefaultColumnMap()

	fs := flag.NewFlagSet("routetime", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.in, "in", "", "input table (.csv or .xlsx)")
	fs.StringVar(&f.out, "out", "", "output table (.csv or .xlsx); defaults to <in>_routes<ext>")
	fs.StringVar(&f.sheet, "sheet", "", "XLSX sheet to read (first sheet when empty)")
	fs.StringVar(&f.mode, "mode", string(domain.ModeDriving), "driving|walking|bicycling|transit")
	fs.StringVar(&f.traffic, "traffic-model", string(domain.TrafficBestGuess), "best_guess|pessimistic|optimistic")
	fs.StringVar(&f.departure, "departure", "", `departure time: "now", "YYYY-MM-DD HH:MM:SS" (UTC) or epoch seconds`)
	fs.DurationVar(&f.delay, "delay", delayDefault, "pause between rows")
	fs.StringVar(&f.cols.OriginLat, "origin-lat", def.OriginLat, "origin latitude column")
	fs.StringVar(&f.cols.OriginLon, "origin-lon", def.OriginLon, "origin longitude column")
	fs.StringVar(&f.cols.DestLat, "dest-lat", def.DestLat, "destination latitude column")
	fs.StringVar(&f.cols.DestLon, "dest-lon", def.DestLon, "destination longitude column")
	fs.StringVar(&f.apiKey, "api-key", "", "routing API key (overrides GOOGLE_MAPS_API_KEY)")
	fs.StringVar(&f.provider, "provider", "", "google|haversine (overrides ROUTING_PROVIDER)")
	fs.BoolVar(&f.quiet, "quiet", false, "no progress output")

	if err := fs.Parse(args); err != nil {
		return f, err
	}
	if f.in == "" {
		return f, errors.New("-in is required")
	}
	if f.out == "" {
		ext := filepath.Ext(f.in)
		f.out = strings.TrimSuffix(f.in, ext) + "_routes" + ext
	}

	return f, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := config.Load(config.Get("CONFIG_PATH", "config.yml"))
	if err != nil {
		return err
	}

	f, err := parseFlags(args, stderr, cfg.Routing.Delay)
	if err != nil {
		return err
	}
	if f.provider != "" {
		cfg.Routing.Provider = f.provider
	}

	log, err := logger.New(cfg.AppEnv, "routetime")
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	config.SetDefaultAPIKey(cfg.Routing.APIKey)

	factory, err := routing.NewFactory(cfg.Routing.Provider, cfg.Routing.BaseURL, cfg.Routing.Timeout, log)
	if err != nil {
		return err
	}

	opts := []services.ProcessorOption{}
	if cfg.Routing.Provider == routing.ProviderHaversine {
		opts = append(opts, services.WithoutCredential())
	}
	if !f.quiet {
		opts = append(opts, services.WithProgress(func(done, total int) {
			fmt.Fprintf(stderr, "\rprocessed %d/%d", done, total)
			if done == total {
				fmt.Fprintln(stderr)
			}
		}))
	}
	if cfg.Database.URL != "" {
		conn, err := db.Open(cfg.Database.Driver, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer conn.Close()
		opts = append(opts, services.WithStore(repositories.NewSQLBatchStore(conn, cfg.Database.Driver, log)))
	}

	var tbl *table.Table
	if f.sheet != "" {
		tbl, err = table.ReadXLSX(f.in, f.sheet)
	} else {
		tbl, err = table.ReadFile(f.in)
	}
	if err != nil {
		return err
	}

	var dep any = f.departure
	if secs, err := strconv.ParseFloat(strings.TrimSpace(f.departure), 64); err == nil {
		dep = secs
	}
	spec, err := departure.ParseValue(dep)
	if err != nil {
		return err
	}

	batchOpts := services.DefaultBatchOptions()
	batchOpts.Mode = domain.TravelMode(f.mode)
	batchOpts.TrafficModel = domain.TrafficModel(f.traffic)
	batchOpts.Departure = spec
	batchOpts.Delay = f.delay
	batchOpts.APIKey = f.apiKey

	processor := services.NewBatchProcessor(factory, log, opts...)
	batch, err := processor.Process(ctx, tbl, f.cols, batchOpts)
	if err != nil {
		return err
	}

	if err := table.WriteFile(f.out, tbl); err != nil {
		return err
	}

	log.Debug("output written", zap.String("path", f.out))
	fmt.Fprintf(stdout, "batch %s: %d rows, %d ok, %d failed -> %s\n",
		batch.ID, batch.Summary.Rows, batch.Summary.OK, batch.Summary.Failed, f.out)

	return nil
}
