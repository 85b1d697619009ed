package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stb-telemetry/internal/app"
	"stb-telemetry/internal/shared/configs"

	"github.com/spf13/pflag"
)

func main() {
	configPath := pflag.StringP("config", "c", "./configs/configs.yml", "path to the YAML configuration file")
	shutdownTimeout := pflag.Duration("shutdown-timeout", 10*time.Second, "time allowed for the final flush on shutdown")
	pflag.Parse()

	// Load configuration
	cfg, err := configs.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize application
	application, err := app.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize app: %v\n", err)
		os.Exit(1)
	}

	// Start engine and server in goroutine
	go func() {
		if err := application.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
			os.Exit(1)
		}
	}()

	fmt.Println("Server started")

	// Wait for interrupt signal or an engine failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	exitCode := 0
	select {
	case <-quit:
	case <-application.EngineDone():
		fmt.Fprintf(os.Stderr, "Engine stopped: %v\n", application.EngineErr())
		exitCode = 1
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), *shutdownTimeout)
	defer cancel()

	if err := application.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Server forced to shutdown: %v\n", err)
		exitCode = 1
	}
	os.Exit(exitCode)
}
