package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/toshokan/toshokan/internal/api"
	"github.com/toshokan/toshokan/internal/config"
	"github.com/toshokan/toshokan/internal/feedsync"
	"github.com/toshokan/toshokan/internal/indexer/ratelimit"
	"github.com/toshokan/toshokan/internal/indexer/toshokan"
	"github.com/toshokan/toshokan/internal/indexer/types"
	"github.com/toshokan/toshokan/internal/logger"
	"github.com/toshokan/toshokan/internal/scheduler"
	"github.com/toshokan/toshokan/internal/scheduler/tasks"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	variant := flag.String("variant", "", "Provider variant (basic or full), overrides config")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [serve | search <terms> | latest]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *variant != "" {
		cfg.Provider.Variant = *variant
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "invalid variant: %v\n", err)
			os.Exit(2)
		}
	}

	// Logs go to stderr so one-shot commands keep stdout for JSON.
	log := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Path:       cfg.Logging.Path,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	}, os.Stderr)
	defer log.Close()

	limiter := ratelimit.NewLimiter(ratelimit.Config{
		QueryLimit:  cfg.Provider.QueryLimit,
		QueryPeriod: time.Duration(cfg.Provider.QueryPeriodMin) * time.Minute,
	}, log.Logger)

	provider, err := newProvider(cfg, limiter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create provider")
	}

	cmd := flag.Arg(0)
	switch cmd {
	case "", "serve":
		err = serve(cfg, provider, limiter, log)
	case "search":
		terms := strings.Join(flag.Args()[1:], " ")
		if strings.TrimSpace(terms) == "" {
			flag.Usage()
			os.Exit(2)
		}
		err = runSearch(provider, terms, os.Stdout)
	case "latest":
		err = printJSON(os.Stdout, provider.GetLatest(context.Background()))
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		log.Error().Err(err).Str("command", cmd).Msg("command failed")
		log.Close()
		os.Exit(1)
	}
}

func newProvider(cfg *config.Config, limiter *ratelimit.Limiter, log *logger.Logger) (*toshokan.Provider, error) {
	def, err := toshokan.LoadDefinition(cfg.Provider.Definition)
	if err != nil {
		return nil, err
	}

	return toshokan.New(def, toshokan.Options{
		Variant:    toshokan.Variant(cfg.Provider.Variant),
		BaseURL:    cfg.Provider.Origin,
		UserAgent:  cfg.Provider.UserAgent,
		HTTPClient: &http.Client{Timeout: time.Duration(cfg.Provider.Timeout) * time.Second},
		Limiter:    limiter,
	}, &log.Logger)
}

func runSearch(provider *toshokan.Provider, terms string, w io.Writer) error {
	records, err := provider.Search(context.Background(), types.SearchOptions{Query: terms})
	if err != nil {
		return err
	}
	return printJSON(w, records)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func serve(cfg *config.Config, provider *toshokan.Provider, limiter *ratelimit.Limiter, log *logger.Logger) error {
	log.Info().
		Str("provider", provider.Name()).
		Str("variant", string(provider.Variant())).
		Msg("starting toshokan")

	var feed *feedsync.Service
	var sched *scheduler.Scheduler

	if cfg.Feed.Enabled {
		feed = feedsync.NewService(provider, cfg.Feed.MaxEntries, log.Logger)

		s, err := scheduler.New(log.Logger)
		if err != nil {
			return fmt.Errorf("create scheduler: %w", err)
		}
		if err := tasks.RegisterFeedSyncTask(s, feed, &cfg.Feed); err != nil {
			return fmt.Errorf("register feed sync: %w", err)
		}
		s.Start()
		sched = s
	}

	server := api.NewServer(provider, api.Deps{
		Feed:      feed,
		Scheduler: sched,
		Limiter:   limiter,
	}, log.Logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(cfg.Server.Address())
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var serveErr error
	select {
	case <-sigChan:
		log.Info().Msg("received shutdown signal")
	case serveErr = <-errCh:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
	if sched != nil {
		if err := sched.Stop(); err != nil {
			log.Error().Err(err).Msg("scheduler shutdown error")
		}
	}

	log.Info().Msg("server stopped")
	return serveErr
}
