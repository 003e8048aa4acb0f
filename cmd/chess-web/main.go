package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	corechess "github.com/park285/clickchess/internal/chess"
	appcfg "github.com/park285/clickchess/internal/config"
	"github.com/park285/clickchess/internal/msgcat"
	"github.com/park285/clickchess/internal/obslog"
	svcchess "github.com/park285/clickchess/internal/service/chess"
	"github.com/park285/clickchess/internal/web"
)

func main() {
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.L()
	defer func() { _ = logger.Sync() }()

	cfg, err := appcfg.Load()
	if err != nil {
		logger.Fatal("config error", zap.Error(err))
	}

	labels, err := msgcat.New(cfg.LabelsDir)
	if err != nil {
		logger.Fatal("label catalog error", zap.Error(err))
	}

	renderer := svcchess.NewSVGBoardRenderer(svcchess.RendererOptions{
		SquarePNGSize: cfg.SquarePNGSize,
		MoveListLimit: cfg.MoveListLimit,
		MovesHeader:   labels.Text("moves.header", "Moves so far:"),
		ResetLabel:    labels.Text("reset.label", "Reset"),
	})
	session := svcchess.NewSession(corechess.NewRules(), logger.Named("session"))

	srv, err := web.NewServer(session, renderer,
		web.WithLogger(logger.Named("http")),
		web.WithRedirectURL(cfg.RedirectURL),
		web.WithTitle(labels.Text("board.title", "Chess")),
		web.WithTimeouts(cfg.ReadTimeoutDuration(), cfg.WriteTimeoutDuration()),
	)
	if err != nil {
		logger.Fatal("http server init error", zap.Error(err))
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe(cfg.ListenAddr) }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Fatal("http server stopped", zap.Error(err))
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		logger.Warn("shutdown error", zap.Error(err))
	}
}
