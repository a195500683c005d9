// Command bot-george runs the bot-george Discord bot.
//
// Usage:
//
//	export BOT_GEORGE_CONFIG=/etc/bot-george/config.toml   # defaults to ./config.toml
//	bot-george
//
// A minimal config.toml:
//
//	[auth]
//	token = "your-bot-token"
//	superuser = 123456789012345678
//
//	[bot]
//	prefix = "!"
//
// Any key can be overridden from the environment, e.g. BOT_GEORGE_AUTH__TOKEN.
// A .env file in the working directory is loaded first when present.
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

	"github.com/joho/godotenv"
	"github.com/oklahomer/go-kasumi/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/oklahomer/bot-george"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "bot-george: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; real deployments use the environment directly.
	_ = godotenv.Load()

	config, err := george.LoadConfig(george.ConfigPath())
	if err != nil {
		return err
	}

	zapLogger, err := george.NewLogger(config.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = zapLogger.Sync() }()
	george.UseLogger(zapLogger)

	// Set up a context that cancels on SIGINT or SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := george.OpenDB(ctx, config.Database.Path)
	if err != nil {
		return err
	}
	defer george.CloseDB(db)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler, err := george.NewHandler(
		config,
		george.WithCommands(newCommands()),
		george.WithDB(db),
		george.WithRegisterer(registry),
	)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return handler.Run(ctx)
	})

	if config.Metrics.Listen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		server := &http.Server{
			Addr:              config.Metrics.Listen,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			logger.Infof("Serving metrics on %s.", config.Metrics.Listen)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})

		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	logger.Infof("Bot is running. Press Ctrl+C to stop.")

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Infof("Shut down.")
	return nil
}
