package log

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

//IsValid reports whether the level (in any letter case) is one of the supported levels.
func (l Level) IsValid() bool {
	_, ok := levelsMapping[l.normalized()]
	return ok
}

func (l Level) normalized() Level {
	return Level(strings.ToLower(strings.TrimSpace(string(l))))
}

func (l Level) zapLevel() zapcore.Level {
	if lvl, ok := levelsMapping[l.normalized()]; ok {
		return lvl
	}
	return zap.InfoLevel
}

//ParseLevel returns the normalized level or false if the text names no supported level.
func ParseLevel(text string) (Level, bool) {
	l := Level(text).normalized()
	return l, l.IsValid()
}

var levelsMapping = map[Level]zapcore.Level{
	DebugLevel: zap.DebugLevel,
	InfoLevel:  zap.InfoLevel,
	WarnLevel:  zap.WarnLevel,
	ErrorLevel: zap.ErrorLevel,
}
