package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mroshb/quizline/internal/config"
	"github.com/mroshb/quizline/internal/database"
	"github.com/mroshb/quizline/internal/handlers"
	"github.com/mroshb/quizline/internal/host"
	"github.com/mroshb/quizline/internal/middleware"
	"github.com/mroshb/quizline/internal/repositories"
	"github.com/mroshb/quizline/internal/transport"
	"github.com/mroshb/quizline/pkg/logger"
)

type serveOptions struct {
	tcpAddr string
	wsAddr  string
	console bool
}

// apply overrides the configuration with flags set on the command line.
func (o *serveOptions) apply(cmd *cobra.Command, cfg *config.Config) error {
	fs := cmd.Flags()
	if fs.Changed("tcp-addr") {
		cfg.TCPAddr = o.tcpAddr
	}
	if fs.Changed("ws-addr") {
		cfg.WSAddr = o.wsAddr
	}
	if fs.Changed("console") {
		cfg.ConsoleEnabled = o.console
	}
	return cfg.Validate()
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := opts.apply(cmd, cfg); err != nil {
		return err
	}

	logger.Info("Starting quizline...", "env", cfg.AppEnv)

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.SeedQuizzes {
		if err := database.SeedQuizzes(ctx, db); err != nil {
			logger.Warn("Failed to seed quizzes", "error", err)
		}
	}

	quizRepo := repositories.NewQuizRepository(db)
	if n, err := quizRepo.Count(ctx); err != nil {
		logger.Warn("Failed to count quizzes", "error", err)
	} else {
		logger.Info("Catalog loaded", "quizzes", n)
	}

	games := host.New(quizRepo)
	manager := handlers.NewHandlerManager(cfg, quizRepo, games)

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerIP, cfg.RateLimitWindow)
	defer limiter.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	if cfg.TCPAddr != "" {
		srv := &transport.TCPServer{Addr: cfg.TCPAddr, Handler: manager, Limiter: limiter}
		g.Go(func() error { return srv.ListenAndServe(ctx) })
	}

	if cfg.WSAddr != "" {
		srv := &transport.WSServer{
			Addr:           cfg.WSAddr,
			Handler:        manager,
			Limiter:        limiter,
			ActiveSessions: games.Active,
		}
		g.Go(func() error { return srv.ListenAndServe(ctx) })
	}

	g.Go(func() error {
		<-ctx.Done()
		for _, round := range games.Sessions() {
			logger.Info("Round interrupted by shutdown",
				"session_id", round.ID,
				"remote", round.Remote,
				"running_for", time.Since(round.StartedAt).Round(time.Second),
			)
		}
		return nil
	})

	if cfg.ConsoleEnabled {
		// Quitting the console stops the whole program.
		g.Go(func() error {
			transport.ServeConsole(ctx, manager, os.Stdin, os.Stdout)
			cancel()
			return nil
		})
	}

	err = g.Wait()
	logger.Info("Shutting down gracefully...", "active_rounds", games.Active())
	return err
}
