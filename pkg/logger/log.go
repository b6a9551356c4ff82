package logger

import "go.uber.org/zap"

// NewLogger builds the service logger writing to stdout and ./logs/app.log.
// Level is taken from the LOG_LEVEL env resolved by the config layer.
func NewLogger(level string) *zap.Logger {
	lvl := zap.NewAtomicLevelAt(zap.DebugLevel)
	if parsed, err := zap.ParseAtomicLevel(level); err == nil && level != "" {
		lvl = parsed
	}

	dualConfig := zap.Config{
		Encoding:         "console",
		Level:            lvl,
		OutputPaths:      []string{"stdout", "./logs/app.log"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    zap.NewProductionEncoderConfig(),
	}

	dualLogger, err := dualConfig.Build()
	if err != nil {
		panic(err)
	}

	return dualLogger.Named("work-equipment")
}
