package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Twibooru/fancy-searchable/api"
	"github.com/Twibooru/fancy-searchable/config"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	cfgPath := flag.String("config", "./.config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(fmt.Errorf("cannot read config file: %w", err))
	}

	logger, err := cfg.Parse()
	if err != nil {
		panic(fmt.Errorf("cannot parse config file: %w", err))
	}

	// Panic recovery
	defer func() {
		if r := recover(); r != nil {
			logger.Error("server panic", "error", r)
		}
	}()

	meta, err := config.WatchFieldMeta(cfg.Server.FieldMetaPath, logger)
	if err != nil {
		logger.Error("cannot load field meta", "error", err)
		os.Exit(1)
	}
	defer meta.Close()

	// Setup signal handling to catch Ctrl+C (SIGINT) or Terminate (SIGTERM)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("received signal. shutting down.", "signal", sig)
		cancel()
	}()

	server, err := api.NewServer(api.Config{
		Addr:         cfg.Server.Addr,
		DefaultField: cfg.Server.DefaultField,
	}, logger, meta)
	if err != nil {
		logger.Error("server error.", "error", err)
		os.Exit(1)
	}

	if err := server.Serve(ctx); err != nil {
		logger.Error("server error.", "error", err)
		cancel()
		os.Exit(1)
	}

	logger.Info("server stopped.")
}
