package gfx

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DebugSeverity classifies driver debug messages.
type DebugSeverity uint8

const (
	SeverityNotification DebugSeverity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
)

func (s DebugSeverity) String() string {
	switch s {
	case SeverityHigh:
		return "high"
	case SeverityMedium:
		return "medium"
	case SeverityLow:
		return "low"
	default:
		return "notification"
	}
}

// Level maps a severity to the log level it is reported at.
func (s DebugSeverity) Level() zapcore.Level {
	switch s {
	case SeverityHigh:
		return zapcore.ErrorLevel
	case SeverityMedium:
		return zapcore.WarnLevel
	case SeverityLow:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// DebugMessage is an asynchronous diagnostic reported by the driver.
type DebugMessage struct {
	Source   string
	Type     string
	Severity DebugSeverity
	ID       uint32
	Text     string
}

// LogDebugMessage writes msg to log at the level of its severity. It never
// stops execution.
func LogDebugMessage(log *zap.Logger, msg DebugMessage) {
	if ce := log.Check(msg.Severity.Level(), msg.Text); ce != nil {
		ce.Write(
			zap.String("source", msg.Source),
			zap.String("type", msg.Type),
			zap.Stringer("severity", msg.Severity),
			zap.Uint32("id", msg.ID),
		)
	}
}
