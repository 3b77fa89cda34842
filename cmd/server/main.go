package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sociogram/backend/internal/app"
	"github.com/sociogram/backend/internal/config"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("sociogram backend failed: %v", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	infra, err := app.NewInfrastructure(ctx, *cfg)
	if err != nil {
		return err
	}

	infra.Logger().Info("sociogram backend starting",
		zap.String("env", cfg.Env),
		zap.String("addr", cfg.Server.Host+":"+cfg.Server.Port),
		zap.Int("pid", os.Getpid()),
	)

	return app.NewApp(infra, cfg).Run(ctx)
}
