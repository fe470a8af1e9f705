// Package main runs the wallet mirror: a reconciler polling the local
// payment-node daemon, refreshed by a periodic timer and by daemon push
// events, publishing snapshots and serving Prometheus metrics.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lnwallet/internal/config"
	"lnwallet/internal/lnd"
	"lnwallet/internal/observability"
	"lnwallet/internal/reconciler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	// Flags override the environment.
	daemonURL := flag.String("daemon-url", cfg.DaemonURL, "daemon REST base address")
	feedURL := flag.String("feed-url", cfg.FeedURL, "daemon websocket event endpoint (empty disables)")
	requestTimeout := flag.Duration("request-timeout", cfg.RequestTimeout, "per-request timeout")
	refreshInterval := flag.Duration("refresh-interval", cfg.RefreshInterval, "periodic refresh interval")
	metricsAddr := flag.String("metrics-addr", cfg.MetricsAddr, "prometheus listen address")
	centsPerCoin := flag.Int64("cents-per-coin", cfg.CentsPerCoin, "fiat cents per coin (0 = no rate)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gateway := lnd.NewHTTPClient(*daemonURL, lnd.WithTimeout(*requestTimeout))

	rec := reconciler.New(reconciler.Options{
		Gateway:      gateway,
		CentsPerCoin: *centsPerCoin,
		Logger:       logger,
	})

	// Metrics endpoint
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", observability.Handler())
		logger.Info("metrics listening", "addr", *metricsAddr)
		if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
			logger.Error("metrics server", "error", err)
		}
	}()

	// Snapshot log subscriber
	subID, snapshots := rec.Subscribe()
	defer rec.Unsubscribe(subID)
	go func() {
		for snap := range snapshots {
			logger.Info("snapshot",
				"seq", snap.Seq,
				"connections", len(snap.Connections),
				"transactions", len(snap.Wallet.Transactions),
				"pending_invoices", len(snap.PendingInvoices),
				"settled", len(snap.Settled),
			)
			for _, s := range snap.Settled {
				logger.Info("invoice settled",
					"id", s.Invoice.ID,
					"amount", s.Transaction.Tokens.Formatted(),
					"memo", s.Transaction.Memo,
				)
			}
		}
	}()

	// Daemon push feed (optional)
	if *feedURL != "" {
		feed, err := lnd.DialWalletFeed(ctx, *feedURL, nil)
		if err != nil {
			logger.Warn("wallet feed unavailable, relying on timer", "error", err)
		} else {
			defer feed.Close()
			go func() {
				for range feed.Events() {
					rec.Refresh()
				}
			}()
		}
	}

	// Periodic timer
	go func() {
		ticker := time.NewTicker(*refreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rec.Refresh()
			}
		}
	}()

	rec.Refresh()

	logger.Info("walletmon started", "daemon", *daemonURL, "interval", *refreshInterval)
	if err := rec.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("reconciler stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("walletmon stopped")
}
