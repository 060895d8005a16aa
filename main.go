package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"cheesechase/config"
	"cheesechase/game"
	"cheesechase/network"
	"cheesechase/room"
)

const shutdownTimeout = 5 * time.Second

func main() {
	config.InitConfig()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration", "err", err)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "cheesechase",
	})
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warn("unknown log level, using info", "level", cfg.LogLevel)
	}

	rules := game.Config{
		GridWidth:   cfg.GridWidth,
		GridHeight:  cfg.GridHeight,
		WinScore:    cfg.WinScore,
		PickupCount: cfg.PickupCount,
	}
	if err := rules.Validate(); err != nil {
		logger.Fatal("invalid game rules", "err", err)
	}

	r := room.New(room.Options{
		Game:        rules,
		GracePeriod: cfg.GracePeriod,
		StaleAfter:  cfg.StaleAfter,
		SweepEvery:  cfg.SweepInterval,
		ResyncHz:    cfg.BroadcastHz,
		Logger:      logger,
	})
	srv := network.NewServer(r, network.Options{
		AllowedOrigin: cfg.FrontendURL,
		FrontendURL:   cfg.FrontendURL,
		Logger:        logger,
	})
	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		r.Run()
		return nil
	})
	g.Go(func() error {
		logger.Info("server listening", "addr", httpServer.Addr, "origin", cfg.FrontendURL)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := httpServer.Shutdown(shutdownCtx)
		r.Stop()
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", "err", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
