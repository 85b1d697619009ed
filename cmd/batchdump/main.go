// Command batchdump prints stored batch files as JSON, one document per line.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"stb-telemetry/internal/codecs"
	"stb-telemetry/internal/events"
	"stb-telemetry/internal/shared/filestorages"
	"stb-telemetry/internal/stores"
	"stb-telemetry/internal/symbols"

	"github.com/spf13/pflag"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "batchdump: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	flags := pflag.NewFlagSet("batchdump", pflag.ContinueOnError)
	rootDir := flags.String("root", "./data", "file storage root directory")
	batchDir := flags.String("dir", "batches", "batch directory inside the root")
	pretty := flags.Bool("pretty", false, "indent the JSON output")
	check := flags.Bool("check", false, "decode every event and fail on the first invalid one")
	if err := flags.Parse(args); err != nil {
		return err
	}

	fileStorage, err := filestorages.NewFileStorage(*rootDir)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	store := stores.NewBatchFileStore(fileStorage, *batchDir)

	filenames := flags.Args()
	if len(filenames) == 0 {
		if filenames, err = store.List(ctx); err != nil {
			return err
		}
	}

	d := dumper{
		store:    store,
		codec:    codecs.NewCBORCodec(),
		schema:   symbols.V1(),
		registry: events.NewRegistry(),
		pretty:   *pretty,
		check:    *check,
	}
	for _, filename := range filenames {
		if err := d.dump(ctx, filename, out); err != nil {
			return fmt.Errorf("%s: %w", filename, err)
		}
	}
	return nil
}

type dumper struct {
	store    stores.BatchFileStore
	codec    codecs.Codec
	schema   *symbols.Schema
	registry *events.Registry
	pretty   bool
	check    bool
}

func (d dumper) dump(ctx context.Context, filename string, out io.Writer) error {
	data, err := d.store.Get(ctx, filename)
	if err != nil {
		return err
	}
	doc, err := d.codec.Decode(data, d.schema)
	if err != nil {
		return err
	}

	if d.check {
		batch, err := doc.List(symbols.Batch)
		if err != nil {
			return err
		}
		for i, item := range batch {
			if _, err := d.registry.Decode(item); err != nil {
				return fmt.Errorf("event %d: %w", i, err)
			}
		}
	}

	rendered, err := doc.MarshalJSON()
	if err != nil {
		return err
	}
	if d.pretty {
		var buf bytes.Buffer
		if err := json.Indent(&buf, rendered, "", "  "); err != nil {
			return err
		}
		rendered = buf.Bytes()
	}
	if _, err := out.Write(append(rendered, '\n')); err != nil {
		return err
	}
	return nil
}
