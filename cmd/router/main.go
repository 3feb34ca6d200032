// Package main is the entry point for the NFT swap router.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"

	"github.com/nftswap/router/business/pricing"
	pricingDI "github.com/nftswap/router/business/pricing/di"
	"github.com/nftswap/router/business/routing"
	routingApp "github.com/nftswap/router/business/routing/app"
	routingDI "github.com/nftswap/router/business/routing/di"
	"github.com/nftswap/router/business/routing/infra/report"
	"github.com/nftswap/router/internal/apm"
	"github.com/nftswap/router/internal/config"
	"github.com/nftswap/router/internal/health"
	"github.com/nftswap/router/internal/logger"
	"github.com/nftswap/router/internal/metrics"
	"github.com/nftswap/router/internal/monolith"
	"github.com/nftswap/router/pkg/ui"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

type cliOptions struct {
	configPath string
	collection string
	count      int
	sell       bool
	cliMode    bool
}

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	var opts cliOptions
	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.collection, "collection", "", "Quote a single collection and exit")
	flag.IntVar(&opts.count, "count", 1, "Number of items for a one-shot quote")
	flag.BoolVar(&opts.sell, "sell", false, "Quote the sell side instead of buy")
	flag.BoolVar(&opts.cliMode, "cli", false, "Run watch mode with console output (no TUI)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("nftswap-router %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		if opts.cliMode || opts.collection != "" {
			fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		}
		cancel()
	}()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts cliOptions) error {
	// Load configuration
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// One-shot quotes and -cli run without the TUI
	tuiMode := !opts.cliMode && opts.collection == ""
	cfg.Router.TUIMode = tuiMode

	// Setup logger (suppress output in TUI mode, the dashboard owns the screen)
	logLevel := logger.LevelInfo
	switch cfg.App.LogLevel {
	case "debug":
		logLevel = logger.LevelDebug
	case "warn":
		logLevel = logger.LevelWarn
	case "error":
		logLevel = logger.LevelError
	}

	var log *logger.Logger
	if tuiMode {
		log = logger.New(io.Discard, logLevel, cfg.App.Name, nil)
	} else {
		log = logger.New(os.Stderr, logLevel, cfg.App.Name, nil)
		log.Info(ctx, "starting NFT swap router",
			"version", version,
			"environment", cfg.App.Environment,
		)
	}

	// Initialize observability if enabled
	var traceProvider apm.TraceProvider
	if cfg.Telemetry.Enabled {
		if cfg.Telemetry.ServiceName != "" {
			os.Setenv("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
		}

		// OTLP when a collector endpoint is configured, Zipkin for local dev.
		provider := apm.ZipkinProvider
		if cfg.Telemetry.OTLPEndpoint != "" {
			provider = apm.OtlpProvider
		}
		traceProvider = apm.NewTraceProvider(log,
			apm.WithServiceName(cfg.Telemetry.ServiceName),
			apm.WithEndpoint(cfg.Telemetry.OTLPEndpoint),
			apm.WithProvider(provider, log),
		)
		log.Info(ctx, "tracing initialized", "provider", string(provider), "endpoint", cfg.Telemetry.OTLPEndpoint)

		metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithProviderConfig(metrics.NewPrometheusConfig()),
		)

		go metrics.ServePrometheusMetrics(metrics.WithPort(strconv.Itoa(cfg.Telemetry.PrometheusPort)))
		log.Info(ctx, "prometheus metrics server started", "port", cfg.Telemetry.PrometheusPort)

		healthServer := health.NewServer(cfg.Telemetry.HealthPort, version, log)
		if err := healthServer.Start(); err != nil {
			log.Warn(ctx, "failed to start health server", "error", err.Error())
		} else {
			log.Info(ctx, "health server started", "port", cfg.Telemetry.HealthPort)
		}
		defer healthServer.Stop(ctx)
	}
	defer func() {
		if traceProvider != nil {
			traceProvider.Stop()
		}
	}()

	// Create monolith (application container)
	mono, err := monolith.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create monolith: %w", err)
	}
	defer mono.Close()

	// Define modules in dependency order
	modules := []monolith.Module{
		&pricing.Module{}, // Provides the pool quote engine
		&routing.Module{}, // Depends on pricing
	}

	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}

	// One-shot quote mode
	if opts.collection != "" {
		if err := mono.StartModules(ctx, modules...); err != nil {
			return fmt.Errorf("failed to start modules: %w", err)
		}
		return runQuote(ctx, mono, cfg, opts)
	}

	// Watch mode needs a reporter before the watcher is built
	decimals := cfg.Chain.CurrencyDecimals
	if tuiMode {
		mono.Container().Register(routingDI.Reporter.Name(), report.NewTUIReporter(decimals))
	} else {
		mono.Container().Register(routingDI.Reporter.Name(), report.NewConsoleReporter(cfg.Chain.CurrencySymbol, decimals))
	}

	if tuiMode {
		startFunc := func() error {
			if err := mono.StartModules(ctx, modules...); err != nil {
				return fmt.Errorf("failed to start modules: %w", err)
			}
			return routingDI.GetWatcher(mono.Services()).Start(ctx)
		}
		stopFunc := func() {
			routingDI.GetWatcher(mono.Services()).Stop()
		}
		return runTUI(ctx, cfg, startFunc, stopFunc)
	}

	// CLI watch mode: start modules synchronously
	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}
	return runWatch(ctx, routingDI.GetWatcher(mono.Services()), log)
}

// runQuote prints the best route and quote ladder for one collection.
func runQuote(ctx context.Context, mono monolith.Monolith, cfg *config.Config, opts cliOptions) error {
	if !common.IsHexAddress(opts.collection) {
		return fmt.Errorf("invalid collection address: %s", opts.collection)
	}
	collection := common.HexToAddress(opts.collection)
	buying := !opts.sell

	router := routingDI.GetRouterService(mono.Services())
	pricingSvc := pricingDI.GetPricingService(mono.Services())

	result, err := router.BestPrice(ctx, collection, opts.count, buying)
	if err != nil {
		return err
	}

	out := report.NewConsoleReporter(cfg.Chain.CurrencySymbol, cfg.Chain.CurrencyDecimals)
	out.ReportRoute(collection, opts.count, buying, result)

	ladder, err := pricingSvc.QuoteLadder(ctx, collection, opts.count, buying)
	if err != nil {
		return err
	}
	out.ReportLadder(collection, buying, ladder)

	estimate, err := pricingSvc.EstimateSlippage(ctx, collection, opts.count, buying, cfg.Router.MaxSlippageBps)
	if err != nil {
		return err
	}
	if estimate != nil && estimate.Quote.Available {
		verdict := "within tolerance"
		if !estimate.WithinTolerance {
			verdict = "exceeds tolerance"
		}
		fmt.Printf("slippage: %s bps (max %d, %s)\n",
			estimate.ImpactBps.StringFixed(1), estimate.MaxBps, verdict)
	}

	return nil
}

func runWatch(ctx context.Context, watcher *routingApp.Watcher, log *logger.Logger) error {
	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	<-ctx.Done()

	log.Info(ctx, "shutting down")
	if err := watcher.Stop(); err != nil {
		log.Error(ctx, "error stopping watcher", "error", err.Error())
	}

	return nil
}

func runTUI(ctx context.Context, cfg *config.Config, startFunc func() error, stopFunc func()) error {
	// Channel to receive StartModulesMsg signal
	startSignal := make(chan struct{}, 1)
	ui.OnStartModules = func() {
		select {
		case startSignal <- struct{}{}:
		default:
		}
	}

	collections := make([]string, len(cfg.Router.Collections))
	for i, c := range cfg.Router.Collections {
		collections[i] = strings.ToLower(common.HexToAddress(c).Hex())
	}

	// Create and start the TUI program IMMEDIATELY (shows welcome screen)
	p := tea.NewProgram(ui.New(collections), tea.WithAltScreen())
	ui.Program = p

	// Run router logic in background (non-blocking)
	errCh := make(chan error, 1)
	go func() {
		// Wait for welcome screen to complete (StartModulesMsg signal)
		select {
		case <-startSignal:
			// Welcome complete, start modules
		case <-ctx.Done():
			errCh <- nil
			return
		}

		// Start modules and watcher (connections happen here, TUI shows progress)
		if err := startFunc(); err != nil {
			ui.Send(ui.ErrorMsg{Error: err})
			errCh <- err
			return
		}

		// Wait for context cancellation
		<-ctx.Done()

		stopFunc()
		errCh <- nil
	}()

	// Run TUI (blocking) - shows immediately with welcome screen
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	// Check for router errors
	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}
