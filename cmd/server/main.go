package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-agent/internal/app"
	"github.com/vancomm/minesweeper-agent/internal/config"
	"github.com/vancomm/minesweeper-agent/internal/knowledge"
	"github.com/vancomm/minesweeper-agent/internal/logging"
)

func main() {
	logCfg, err := config.NewLogging()
	if err != nil {
		logrus.Fatal("unable to read logging config: ", err)
	}
	log, err := logging.New(logCfg)
	if err != nil {
		logrus.Fatal("unable to set up logging: ", err)
	}
	knowledge.Log = log

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	log.WithField("development", config.Development()).Info("starting up")

	if err := app.New(log).Start(ctx); err != nil {
		log.Fatal("server failed: ", err)
	}
	log.Info("shut down")
}
