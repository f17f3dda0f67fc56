package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gookit/color"
	"github.com/oarkflow/squealx"
	"github.com/oarkflow/squealx/connection"
	"github.com/oarkflow/squealx/drivers/sqlite"
	"go.uber.org/zap"

	"github.com/oarkflow/contact"
	"github.com/oarkflow/contact/pkg/config"
	"github.com/oarkflow/contact/pkg/libs"
)

const shutdownTimeout = 10 * time.Second

// Run serves the contact site until ctx is done.
func Run(ctx context.Context) error {
	values, err := config.New(".env", false, nil)
	if err != nil {
		return err
	}
	config.Defaults(values)
	cfg := libs.LoadConfig(values)

	log := newLogger(cfg.Env)
	defer func() { _ = log.Sync() }()

	db, err := openDB(cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	plugin := contact.NewPluginWithOptions(
		contact.WithPrefix("/"),
		contact.WithConfig(cfg),
		contact.WithDB(db),
		contact.WithLog(log),
	)
	if err := plugin.Register(); err != nil {
		return err
	}
	go plugin.Manager.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		color.Green.Printf("%s listening on %s\n", cfg.AppName, cfg.Addr)
		errCh <- plugin.App.Listen(cfg.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	color.Yellow.Println("Shutting down server")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return plugin.App.ShutdownWithContext(ctxShutdown)
}

func newLogger(env string) *zap.Logger {
	var (
		log *zap.Logger
		err error
	)
	if env == "production" {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func openDB(cfg libs.DBConfig) (*squealx.DB, error) {
	if cfg.Driver == "sqlite" || cfg.Driver == "sqlite3" {
		return sqlite.Open(cfg.DSN, "sqlite")
	}
	db, _, err := connection.FromConfig(squealx.Config{
		Driver:   cfg.Driver,
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		Database: cfg.Database,
	})
	return db, err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := Run(ctx); err != nil {
		color.Red.Println(err.Error())
		os.Exit(1)
	}
}
