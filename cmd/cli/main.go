package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/wikied/internal/buildinfo"
	"github.com/dmitrijs2005/wikied/internal/client/cli"
	"github.com/dmitrijs2005/wikied/internal/client/config"
	"github.com/dmitrijs2005/wikied/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, closer, err := logging.NewFileLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "start", "error", err)
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
