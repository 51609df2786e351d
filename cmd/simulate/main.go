package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/arena/internal/simulate"
	"github.com/okian/arena/pkg/logger"
)

// Default configuration constants.
const (
	defaultProviders  = 20
	defaultSignals    = 50
	defaultPrizePool  = 1_000_000
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:9080", "Base URL of the service")
		providers = flag.Int("providers", defaultProviders, "Number of simulated signal providers")
		signals   = flag.Int("signals", defaultSignals, "Number of signals submitted per provider")
		metric    = flag.String("metric", "highest_roi", "Contest metric")
		pool      = flag.Int64("pool", defaultPrizePool, "Contest prize pool")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		finalize  = flag.Bool("finalize", false, "Attempt finalization after submitting")
		verbose   = flag.Bool("verbose", false, "Enable verbose logging")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simulate.ShowHelp()
		return
	}

	level := "info"
	if *verbose {
		level = "debug"
	}
	if err := simulate.SetupLogging(level); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &simulate.Config{
		BaseURL:   *baseURL,
		Providers: *providers,
		Signals:   *signals,
		Metric:    *metric,
		PrizePool: *pool,
		Timeout:   *timeout,
		Finalize:  *finalize,
		Verbose:   *verbose,
	}

	stats, err := simulate.Run(ctx, config)
	if err != nil {
		logger.Get().Error(ctx, "simulation failed", logger.Error(err))
		os.Exit(1)
	}

	logger.Get().Info(ctx, "simulation complete",
		logger.Int("signals_submitted", stats.SignalsSubmitted),
		logger.Int("signals_accepted", stats.SignalsAccepted),
		logger.Int("signals_failed", stats.SignalsFailed),
		logger.String("duration", stats.Duration.String()),
	)
}
