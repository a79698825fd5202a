package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/dayanaadylkhanova/pow-miner/internal/adapter/header"
	"github.com/dayanaadylkhanova/pow-miner/internal/adapter/store"
	"github.com/dayanaadylkhanova/pow-miner/internal/adapter/transport/httpc"
	"github.com/dayanaadylkhanova/pow-miner/internal/adapter/transport/status"
	"github.com/dayanaadylkhanova/pow-miner/internal/app"
	"github.com/dayanaadylkhanova/pow-miner/internal/service"
	"github.com/dayanaadylkhanova/pow-miner/internal/session"
	"github.com/dayanaadylkhanova/pow-miner/pkg/config"
	"github.com/dayanaadylkhanova/pow-miner/pkg/logger"
)

const usage = "usage: miner [mine|info|records]"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cmd := "mine"
	if len(args) > 0 {
		cmd = args[0]
	}

	if err := config.LoadDotEnv(os.Getenv("MINER_ENV_FILE")); err != nil {
		fmt.Fprintln(os.Stderr, "load .env:", err)
		return 1
	}
	cfg := config.Parse()
	log := logger.NewJSON(logger.LevelFromEnv(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", slog.Any("err", err))
		return 1
	}

	variant, err := session.VariantByVersion(cfg.Version)
	if err != nil {
		log.Error("invalid config", slog.Any("err", err))
		return 1
	}

	client, err := httpc.New(httpc.Options{
		Protocol: httpc.Protocol(cfg.Protocol),
		ProxyURL: cfg.ProxyURL,
		Timeout:  cfg.RequestTimeout,
	})
	if err != nil {
		log.Error("http client init failed", slog.Any("err", err))
		return 1
	}
	defer client.Close()

	opts := session.DefaultOptions()
	opts.Variant = variant
	opts.BaseURL = cfg.BaseURL
	opts.Workers = cfg.Cores
	opts.Cookies = cfg.SessionCookie
	opts.CFResponse = cfg.CFResponse
	opts.FetchBackoff = cfg.FetchBackoff
	opts.ClaimBackoff = cfg.ClaimBackoff
	opts.CyclePause = cfg.CyclePause

	if cfg.StateDir != "" && cmd == "mine" {
		st, err := store.Open(cfg.StateDir)
		if err != nil {
			log.Error("state store init failed", slog.Any("err", err), slog.String("dir", cfg.StateDir))
			return 1
		}
		defer st.Close()
		opts.Store = st
	}

	headers := header.NewBrowser(cfg.Authorization, cfg.Cookie, cfg.Origin)
	solver := service.NewParallel(log, cfg.NonceLength, cfg.PinWorkers)
	sess := session.New(log, client, headers, solver, opts)

	switch cmd {
	case "mine":
		log.Info("starting miner",
			slog.String("variant", variant.Name),
			slog.Int("units", solver.Units()),
			slog.Int("workers", solver.Workers(cfg.Cores)),
			slog.String("protocol", cfg.Protocol),
		)
		runners := []app.Runner{sess}
		if cfg.StatusAddr != "" {
			gin.SetMode(gin.ReleaseMode)
			runners = append(runners, status.NewServer(log, cfg.StatusAddr, cfg.ShutdownWait, sess))
		}
		if err := app.New(runners...).Run(); err != nil {
			log.Error("miner stopped with error", slog.Any("err", err))
			return 1
		}
		return 0

	case "info":
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		body, err := sess.Account(ctx)
		if err != nil {
			log.Error("account request failed", slog.Any("err", err))
			return 1
		}
		fmt.Println(string(body))
		return 0

	case "records":
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		ids, err := sess.Records(ctx)
		if err != nil {
			log.Error("pow records request failed", slog.Any("err", err))
			return 1
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		return 0

	default:
		fmt.Fprintln(os.Stderr, usage)
		return 2
	}
}
