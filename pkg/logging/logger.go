// Package logging constructs the process logger and provides sanitizers for
// values that may embed credentials.
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger builds the process logger. Local environments get the
// development config (console encoding, debug level); everything else gets
// the production config.
func NewLogger(env string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "local" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}
