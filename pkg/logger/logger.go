package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the shared application logger. Init must run before use;
// packages that may run standalone (tests, tools) can call GetLogger
// which falls back to a sane default.
var Logger *logrus.Logger

// Init configures the global logger. Production runs emit JSON for log
// aggregation, development runs keep human-readable text output.
func Init(level string, isDevelopment bool) {
	Logger = logrus.New()
	Logger.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Logger.SetLevel(lvl)

	if isDevelopment {
		Logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	} else {
		Logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z",
		})
	}
}

// GetLogger returns the global logger, initializing a default one if
// Init has not run.
func GetLogger() *logrus.Logger {
	if Logger == nil {
		Init("info", true)
	}
	return Logger
}

// WithComponent tags entries with the engine component that emitted them.
func WithComponent(component string) *logrus.Entry {
	return GetLogger().WithField("component", component)
}

// WithSimulation tags entries with the identifying fields of a
// simulation run.
func WithSimulation(slateID string, trials int, seed int64) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{
		"component": "simulation",
		"slate_id":  slateID,
		"trials":    trials,
		"seed":      seed,
	})
}

// WithPortfolio tags entries with portfolio generation context.
func WithPortfolio(slateID string, size int) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{
		"component":      "portfolio",
		"slate_id":       slateID,
		"portfolio_size": size,
	})
}
