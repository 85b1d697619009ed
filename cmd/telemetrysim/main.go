// Command telemetrysim posts synthetic viewing sessions to a running telemetry daemon.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"stb-telemetry/internal/catalogs"
	"stb-telemetry/internal/shared/loggers"
	"stb-telemetry/internal/simulators"

	"github.com/spf13/pflag"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "telemetrysim: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	flags := pflag.NewFlagSet("telemetrysim", pflag.ContinueOnError)
	baseURL := flags.String("url", "http://localhost:8080", "base URL of the telemetry daemon")
	sessions := flags.Int("sessions", 1, "number of sessions to send")
	zaps := flags.Int("zaps", 5, "channel changes per session")
	channels := flags.StringSlice("channels", nil, "channel tags to zap between")
	seed := flags.Uint64("seed", 1, "random seed")
	step := flags.Duration("step", 5*time.Second, "gap between consecutive events")
	flush := flags.Bool("flush", true, "ask the daemon to flush after sending")
	catalogURL := flags.String("catalog-url", "", "programme catalog base URL; empty invents programmes")
	catalogRPS := flags.Float64("catalog-rps", 2, "catalog requests per second")
	logLevel := flags.String("log-level", "info", "log level")
	if err := flags.Parse(args); err != nil {
		return err
	}

	logger, err := loggers.New(*logLevel)
	if err != nil {
		return err
	}
	ctx = logger.WithContext(ctx)

	var source catalogs.MetadataSource
	if *catalogURL != "" {
		source = catalogs.NewMetadataSource(*catalogURL, catalogs.Options{RequestsPerSecond: *catalogRPS})
	}

	client := simulators.NewClient(*baseURL, 30*time.Second)
	start := time.Now().UTC().Truncate(time.Second)
	total := 0
	for i := 0; i < *sessions; i++ {
		generator := simulators.NewGenerator(source, simulators.Options{
			Start:    start,
			Channels: *channels,
			Zaps:     *zaps,
			Step:     *step,
			Seed:     *seed + uint64(i),
		})
		evs, err := generator.Session(ctx)
		if err != nil {
			return err
		}
		payload, err := simulators.Payload(evs)
		if err != nil {
			return err
		}
		accepted, err := client.PostEvents(ctx, payload)
		if err != nil {
			return fmt.Errorf("session %d: %w", i+1, err)
		}
		total += accepted
		logger.Info().Int("session", i+1).Int(loggers.FieldEventCount, accepted).Msg("session sent")
		start = evs[len(evs)-1].Header().Timestamp.Add(*step)
	}
	fmt.Fprintf(out, "accepted %d events\n", total)

	if *flush {
		files, err := client.Flush(ctx)
		if err != nil {
			return fmt.Errorf("flush: %w", err)
		}
		for _, f := range files {
			fmt.Fprintln(out, f)
		}
	}
	return nil
}
