package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/walletkeeper/internal/buildinfo"
	"github.com/dmitrijs2005/walletkeeper/internal/cli"
	"github.com/dmitrijs2005/walletkeeper/internal/config"
	"github.com/dmitrijs2005/walletkeeper/internal/logging"
	"github.com/dmitrijs2005/walletkeeper/internal/repositories/document"
	"github.com/dmitrijs2005/walletkeeper/internal/services"
	"github.com/dmitrijs2005/walletkeeper/internal/store"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(logging.Options{
		Driver: cfg.LogDriver,
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := document.Open(ctx, cfg.Backend, cfg.VaultPath, cfg.DatabaseDSN)
	if err != nil {
		logger.Error(ctx, "cannot open vault storage", "backend", cfg.Backend, "error", err)
		os.Exit(1)
	}
	st, err := store.Open(ctx, backend,
		store.WithLegacyOwner(cfg.LegacyOwner),
		store.WithLogger(logger.With("component", "store")),
	)
	if err != nil {
		_ = backend.Close()
		logger.Error(ctx, "cannot load vault", "backend", cfg.Backend, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	auth := services.NewAuthService(st, cfg.MinPasswordLength, logger.With("component", "auth"))
	vault := services.NewVaultService(st, auth, logger.With("component", "vault"))

	app := cli.NewApp(vault, logger, os.Stdin, os.Stdout)
	app.Run(ctx, "walletkeeper: local wallet vault")
}
