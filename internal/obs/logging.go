// Package obs contains observability utilities such as logging.
package obs

import "go.uber.org/zap"

// Logger is the global structured logger used by the service. It defaults
// to a no-op logger so packages can log before InitLogger runs (tests,
// early startup).
var Logger = zap.NewNop().Sugar()

// InitLogger replaces the global Logger with a production JSON logger.
//
// InitLogger is exported to allow other packages to initialize the Logger.
func InitLogger() {
	base, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	Logger = base.Sugar()
}
