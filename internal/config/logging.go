package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

type Logging struct {
	Level logrus.Level
	// File, when set, receives a JSON copy of the log with rotation.
	File string
}

func NewLogging() (*Logging, error) {
	level := logrus.InfoLevel
	if Development() {
		level = logrus.DebugLevel
	}
	if levelStr, ok := os.LookupEnv("LOG_LEVEL"); ok {
		var err error
		level, err = logrus.ParseLevel(levelStr)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
	}
	return &Logging{
		Level: level,
		File:  os.Getenv("LOG_FILE"),
	}, nil
}
