package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Field = zap.Field

//Logger is passed explicitly to every component; there is no package-level logger.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
	Sync() error
}

type zapLogger struct {
	*zap.Logger
}

func (l zapLogger) With(fields ...Field) Logger {
	return zapLogger{Logger: l.Logger.With(fields...)}
}

//New builds a console logger writing to stderr, or to logFile when it is not empty.
func New(lvl Level, logFile string) (Logger, error) {
	output := "stderr"
	if logFile != "" {
		output = logFile
	}
	zl, err := zap.Config{
		Level:    zap.NewAtomicLevelAt(lvl.zapLevel()),
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:     "msg",
			LevelKey:       "lvl",
			TimeKey:        "ts",
			NameKey:        "logger",
			CallerKey:      zapcore.OmitKey,
			FunctionKey:    zapcore.OmitKey,
			StacktraceKey:  "stack",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:       []string{output},
		ErrorOutputPaths:  []string{"stderr"},
		DisableStacktrace: true,
	}.Build()
	if err != nil {
		return nil, err
	}
	return zapLogger{Logger: zl}, nil
}

//Nop returns a logger that discards everything.
func Nop() Logger {
	return zapLogger{Logger: zap.NewNop()}
}
