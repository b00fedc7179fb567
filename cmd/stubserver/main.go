package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"tableside/internal/config"
	"tableside/internal/stub"
	"tableside/pkg/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("stubserver", flag.ContinueOnError)
	configPath := fs.String("config-path", "config.yaml", "path to config yaml")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	mylog, err := logger.New(cfg.Log.Level, cfg.Log.Encoding, cfg.Log.OutputPaths)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer mylog.Sync()

	server := stub.NewServer(mylog)

	stop := make(chan struct{})
	defer close(stop)
	server.StartAdvancer(cfg.Stub.AdvanceInterval, stop)

	mylog.Info("starting stub collaborator",
		zap.String("addr", cfg.Stub.Addr()),
		zap.Duration("advance_interval", cfg.Stub.AdvanceInterval))
	return server.Run(cfg.Stub.Addr())
}
