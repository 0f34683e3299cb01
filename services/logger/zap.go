package logsvc

import (
	"strings"

	"go.uber.org/zap"

	"github.com/trezcool/gpacalc/core"
)

// ZapLogger is a core.Logger writing structured key/value logs through zap.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

var _ core.Logger = (*ZapLogger)(nil)

// NewZapLogger builds a production (json) logger for mode "prod"/"production",
// and a development (console) logger otherwise.
func NewZapLogger(mode string) (*ZapLogger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{"stderr"}
	zapLogger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &ZapLogger{sugar: zapLogger.Sugar()}, nil
}

func (l *ZapLogger) Sync() {
	_ = l.sugar.Sync()
}

func (l *ZapLogger) With(keysAndValues ...interface{}) *ZapLogger {
	return &ZapLogger{sugar: l.sugar.With(keysAndValues...)}
}

func (l *ZapLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l *ZapLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, keysAndValues...)
}

func (l *ZapLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.sugar.Warnw(msg, keysAndValues...)
}

func (l *ZapLogger) Error(msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, keysAndValues...)
}

func (l *ZapLogger) Fatal(msg string, keysAndValues ...interface{}) {
	l.sugar.Fatalw(msg, keysAndValues...)
}

// New builds the application logger from conf: zap, reporting to rollbar when a token is set.
func New(conf *core.Config) (core.Logger, func(), error) {
	zl, err := NewZapLogger(conf.LogMode)
	if err != nil {
		return nil, nil, err
	}
	zl = zl.With("app", conf.AppName, "env", conf.Env)
	if conf.RollbarToken == "" {
		return zl, zl.Sync, nil
	}
	return NewRollbarLogger(zl, conf), zl.Sync, nil
}
