package main

import (
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-agent/internal/config"
	"github.com/vancomm/minesweeper-agent/internal/database"
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

	url, err := config.DbURL()
	if err != nil {
		log.Fatal("no database configured: ", err)
	}
	version, dirty, err := database.Migrate(url)
	if err != nil {
		log.Fatal("migration failed: ", err)
	}
	log.WithFields(logrus.Fields{
		"version": version,
		"dirty":   dirty,
	}).Info("migration successful")
}
