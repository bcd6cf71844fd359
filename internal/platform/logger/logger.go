package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// New builds a zap logger named after the service. "production" selects the
// JSON production config; anything else the development console config.
func New(env, name string) (*zap.Logger, error) {
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
		return nil, fmt.Errorf("create logger: %w", err)
	}

	return log.Named(name), nil
}
