package app

import (
	"fmt"
	"os"

	"service-courier/internal/config"
	"service-courier/internal/logx"
)

func newLogger(cfg *config.Config) (logx.Logger, error) {
	level, err := logx.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return logx.NewJSON(os.Stdout, level), nil
}
