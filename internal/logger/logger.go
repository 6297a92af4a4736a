package logger

import (
	"go.uber.org/zap"

	"idops-controlplane/internal/config"
)

// Provide returns the application logger and installs it as the zap global so
// packages can log through zap.L().
func Provide(cfg *config.Config) (*zap.Logger, error) {
	var (
		log *zap.Logger
		err error
	)

	if cfg.AppEnv == "production" {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}

	zap.ReplaceGlobals(log)
	return log, nil
}
