package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"stb-telemetry/internal/codecs"
	"stb-telemetry/internal/events"
	"stb-telemetry/internal/shared/filestorages"
	"stb-telemetry/internal/simulators"
	"stb-telemetry/internal/stores"
	"stb-telemetry/internal/symbols"
)

// main runs the e2e scenario: 001_concurrent_sessions
//
// It sends generated viewing sessions to a running telemetryd from several workers at once,
// flushes, then reads back every batch file written during the run.
//
// What it tests:
//   - Event ingestion via POST /events from concurrent producers
//   - Device context events are kept out of the buffer and lead every batch
//   - Every batch ends with an end-of-file marker
//   - Every accepted non-context event lands in exactly one batch
//   - Sequence numbers increase across the batches of the run
func main() {
	// these configs can be changed to run the scenario
	baseURL := "http://localhost:8080" // Base URL of the telemetry daemon
	sessions := 40                     // Number of sessions to send
	zapsPerSession := 20               // Channel changes per session
	parallel := 4                      // Number of concurrent senders
	fileStorageDir := "data"           // Daemon file storage root, relative to project root
	batchDir := "batches"              // Batch directory inside the root

	projectRoot, err := findProjectRoot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
	storagePath := filepath.Join(projectRoot, fileStorageDir)

	fmt.Println("Starting e2e scenario: 001_concurrent_sessions")
	fmt.Printf("BASE_URL: %s\n", baseURL)
	fmt.Printf("SESSIONS: %d\n", sessions)
	fmt.Printf("ZAPS_PER_SESSION: %d\n", zapsPerSession)
	fmt.Printf("PARALLEL: %d\n", parallel)
	fmt.Printf("FILE_STORAGE_PATH: %s\n", storagePath)
	fmt.Println()

	ctx := context.Background()
	fileStorage, err := filestorages.NewFileStorage(storagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to open file storage: %v\n", err)
		os.Exit(1)
	}
	store := stores.NewBatchFileStore(fileStorage, batchDir)
	before, err := store.List(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to list batch files: %v\n", err)
		os.Exit(1)
	}

	// Generate all payloads up front so workers only send
	payloads := make([][]byte, 0, sessions)
	start := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < sessions; i++ {
		evs, err := simulators.NewGenerator(nil, simulators.Options{
			Start: start.Add(time.Duration(i) * time.Hour),
			Zaps:  zapsPerSession,
			Seed:  uint64(i + 1),
		}).Session(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Failed to generate session %d: %v\n", i+1, err)
			os.Exit(1)
		}
		payload, err := simulators.Payload(evs)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Failed to render session %d: %v\n", i+1, err)
			os.Exit(1)
		}
		payloads = append(payloads, payload)
	}

	client := simulators.NewClient(baseURL, 30*time.Second)
	workerChan := make(chan struct{}, parallel)
	var wg sync.WaitGroup
	var failed, accepted int64

	for i, payload := range payloads {
		wg.Add(1)
		workerChan <- struct{}{}

		go func(index int, body []byte) {
			defer wg.Done()
			defer func() { <-workerChan }()

			n, err := client.PostEvents(ctx, body)
			if err != nil {
				atomic.AddInt64(&failed, 1)
				fmt.Fprintf(os.Stderr, "ERROR: Session %d failed: %v\n", index+1, err)
				return
			}
			atomic.AddInt64(&accepted, int64(n))
			fmt.Printf("Session %d accepted (%d events)\n", index+1, n)
		}(i, payload)
	}
	wg.Wait()

	fmt.Println()
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "ERROR: %d sessions failed\n", failed)
		os.Exit(1)
	}

	files, err := client.Flush(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Flush failed: %v\n", err)
		os.Exit(1)
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		if !slices.Contains(before, f) {
			written = append(written, f)
		}
	}

	stats, err := verifyBatches(ctx, store, written)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}

	wantBuffered := accepted - int64(sessions)
	fmt.Println("=== Statistics ===")
	fmt.Printf("Accepted events: %d\n", accepted)
	fmt.Printf("Batch files written: %d\n", len(written))
	fmt.Printf("Events in batches: %d (want %d)\n", stats.events, wantBuffered)
	fmt.Printf("Last sequence: %d\n", stats.lastSequence)
	if stats.events != wantBuffered {
		fmt.Fprintf(os.Stderr, "ERROR: event count mismatch\n")
		os.Exit(1)
	}
	fmt.Println("Scenario completed successfully")
}

type batchStats struct {
	events       int64
	lastSequence int64
}

func verifyBatches(ctx context.Context, store stores.BatchFileStore, filenames []string) (batchStats, error) {
	codec := codecs.NewCBORCodec()
	schema := symbols.V1()
	registry := events.NewRegistry()

	var stats batchStats
	for _, filename := range filenames {
		data, err := store.Get(ctx, filename)
		if err != nil {
			return stats, err
		}
		doc, err := codec.Decode(data, schema)
		if err != nil {
			return stats, fmt.Errorf("%s: %w", filename, err)
		}
		seq, err := doc.Int(symbols.Sequence)
		if err != nil {
			return stats, fmt.Errorf("%s: %w", filename, err)
		}
		if seq <= stats.lastSequence {
			return stats, fmt.Errorf("%s: sequence %d does not follow %d", filename, seq, stats.lastSequence)
		}
		stats.lastSequence = seq

		batch, err := doc.List(symbols.Batch)
		if err != nil {
			return stats, fmt.Errorf("%s: %w", filename, err)
		}
		if len(batch) < 2 {
			return stats, fmt.Errorf("%s: batch too short (%d)", filename, len(batch))
		}
		first, err := registry.Decode(batch[0])
		if err != nil || first.Kind() != events.KindDeviceContext {
			return stats, fmt.Errorf("%s: batch does not open with a device context", filename)
		}
		last, err := registry.Decode(batch[len(batch)-1])
		if err != nil || last.Kind() != events.KindEndOfFile {
			return stats, fmt.Errorf("%s: batch does not end with end-of-file", filename)
		}
		stats.events += int64(len(batch) - 2)
	}
	return stats, nil
}

// findProjectRoot walks up from the working directory until it finds go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find go.mod; run from inside the project")
		}
		dir = parent
	}
}
