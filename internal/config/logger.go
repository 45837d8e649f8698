package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/qdm12/gosettings"
	"github.com/qdm12/gosettings/reader"
	"github.com/qdm12/gotree"
	"github.com/qdm12/log"
)

type Logger struct {
	Caller *bool
	Level  *log.Level
}

func (l *Logger) setDefaults() {
	l.Caller = gosettings.DefaultPointer(l.Caller, false)
	l.Level = gosettings.DefaultPointer(l.Level, log.LevelInfo)
}

func (l Logger) Validate() (err error) {
	return nil
}

func (l Logger) String() string {
	return l.toLinesNode().String()
}

func (l Logger) toLinesNode() *gotree.Node {
	node := gotree.New("Logger")
	node.Appendf("Level: %s", *l.Level)
	caller := "hidden"
	if *l.Caller {
		caller = "short"
	}
	node.Appendf("Caller: %s", caller)
	return node
}

func (l Logger) ToOptions() (options []log.Option) {
	options = []log.Option{log.SetLevel(*l.Level)}
	if *l.Caller {
		options = append(options, log.SetCallerFile(true), log.SetCallerLine(true))
	}
	return options
}

var (
	ErrLogCallerNotValid = errors.New("LOG_CALLER value is not valid")
	ErrLogLevelUnknown   = errors.New("log level is unknown")
)

func (l *Logger) read(reader *reader.Reader) (err error) {
	callerString := reader.String("LOG_CALLER")
	switch callerString {
	case "":
	case "hidden":
		l.Caller = ptrTo(false)
	case "short":
		l.Caller = ptrTo(true)
	default:
		return fmt.Errorf("%w: "+
			`%q must be one of "", "hidden" or "short"`,
			ErrLogCallerNotValid, callerString)
	}

	levelString := reader.String("LOG_LEVEL")
	if levelString == "" {
		return nil
	}
	level, err := parseLogLevel(levelString)
	if err != nil {
		return fmt.Errorf("environment variable LOG_LEVEL: %w", err)
	}
	l.Level = &level
	return nil
}

func parseLogLevel(s string) (level log.Level, err error) {
	switch strings.ToLower(s) {
	case "debug":
		return log.LevelDebug, nil
	case "info":
		return log.LevelInfo, nil
	case "warning":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	default:
		return level, fmt.Errorf(
			"%w: %q is not valid and can be one of debug, info, warning or error",
			ErrLogLevelUnknown, s)
	}
}

func ptrTo[T any](value T) *T {
	return &value
}
