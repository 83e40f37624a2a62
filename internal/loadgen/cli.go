package loadgen

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/okian/scout/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "load_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the load tool.
func ShowHelp() {
	os.Stdout.WriteString(`Scout Load Tool
===============

A concurrent tool for load-testing and verifying the scouting service.
It generates a synthetic player dataset, writes it to the CSV file the
service reads, triggers a refresh, then hammers the query endpoints and
checks ranking order and recommendation scoring.

Usage:
  go run cmd/scout-loadgen/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -csv string
        Dataset file to write; must match the service csv_path (default "players.csv")
  -players int
        Number of players to generate (default 400)
  -queries int
        Number of recommendation queries to issue (default 2000)
  -top int
        Ranking depth to fetch and verify (default 50)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -log string
        Log file for run output (default: load_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Run with default settings
  go run cmd/scout-loadgen/main.go

  # Larger dataset and heavier query load
  go run cmd/scout-loadgen/main.go -players 2000 -queries 20000 -workers 16

  # Point at a service with a custom dataset path
  go run cmd/scout-loadgen/main.go -url http://localhost:8080 -csv /var/lib/scout/players.csv

  # Verbose run with a named log file
  go run cmd/scout-loadgen/main.go -verbose -log smoke.log

The dataset file must be the same file the service is configured to read
(csv_path / SCOUT_CSV_PATH), otherwise the refresh will not pick up the
generated players.
`)
}
