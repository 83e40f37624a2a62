package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/scout/internal/loadgen"
)

// Default configuration constants.
const (
	defaultNumPlayers = 400
	defaultNumQueries = 2000
	defaultTopN       = 50
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:9080", "Base URL of the service")
		datasetFile = flag.String("csv", "players.csv", "Dataset file to write; must match the service csv_path")
		numPlayers  = flag.Int("players", defaultNumPlayers, "Number of players to generate")
		numQueries  = flag.Int("queries", defaultNumQueries, "Number of recommendation queries to issue")
		topN        = flag.Int("top", defaultTopN, "Ranking depth to fetch and verify")
		workers     = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile     = flag.String("log", "", "Log file for run output (default: load_log_TIMESTAMP.log)")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		loadgen.ShowHelp()
		return
	}

	// Setup logging
	if err := loadgen.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	// Create run configuration
	config := &loadgen.Config{
		BaseURL:     *baseURL,
		DatasetFile: *datasetFile,
		NumPlayers:  *numPlayers,
		NumQueries:  *numQueries,
		TopN:        *topN,
		Workers:     *workers,
		Timeout:     *timeout,
		LogFile:     *logFile,
		Verbose:     *verbose,
	}

	// Run the load test
	if err := loadgen.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Load run failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
