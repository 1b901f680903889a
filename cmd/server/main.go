package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"atm-server/config"
	"atm-server/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	os.Exit(run())
}

func run() int {
	// .env is optional; real environment variables always win.
	envErr := godotenv.Load()

	cfg, err := config.Load(os.Getenv("ATM_CONFIG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}

	var extra []io.Writer
	if cfg.Log.File != "" {
		f, err := logger.OpenFile(cfg.Log.File)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			return 1
		}
		defer f.Close()
		extra = append(extra, f)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty, extra...)

	if envErr != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	log.Info().
		Str("addr", cfg.Server.Addr()).
		Str("storage", cfg.Storage.Driver).
		Msg("Starting ATM server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialise server")
		return 1
	}
	defer a.close()

	l, err := net.Listen("tcp", cfg.Server.Addr())
	if err != nil {
		log.Error().Err(err).Str("addr", cfg.Server.Addr()).Msg("Failed to listen")
		return 1
	}

	if err := a.serve(ctx, l); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
		return 1
	}

	log.Info().Msg("Server exited")
	return 0
}
