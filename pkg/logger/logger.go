package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
)

var (
	once sync.Once
	sl   *zap.SugaredLogger
)

// L returns the process-wide sugared logger. Production config when
// APP_ENV=production, development config otherwise.
func L() *zap.SugaredLogger {
	once.Do(func() {
		var l *zap.Logger
		var err error
		if os.Getenv("APP_ENV") == "production" {
			l, err = zap.NewProduction()
		} else {
			l, err = zap.NewDevelopment()
		}
		if err != nil {
			l = zap.NewNop()
		}
		sl = l.Sugar()
	})
	return sl
}

// Sync flushes buffered log entries; call on shutdown.
func Sync() {
	if sl != nil {
		_ = sl.Sync()
	}
}
