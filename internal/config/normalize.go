package config

import "strings"

// InvalidPolicy controls how documents failing metadata validation are handled.
type InvalidPolicy string

const (
	// PolicyFail aborts the whole build when any document fails validation.
	PolicyFail InvalidPolicy = "fail"
	// PolicySkip excludes offending documents and reports them on the result.
	PolicySkip InvalidPolicy = "skip"
)

// NormalizeInvalidPolicy maps raw input to a policy, defaulting to fail-closed.
func NormalizeInvalidPolicy(raw string) InvalidPolicy {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(PolicySkip):
		return PolicySkip
	default:
		return PolicyFail
	}
}

// LogLevel enumerates supported logging levels (mapped to slog).
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

func NormalizeLogLevel(raw string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(LogLevelDebug):
		return LogLevelDebug
	case string(LogLevelWarn):
		return LogLevelWarn
	case string(LogLevelError):
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

func NormalizeLogFormat(raw string) LogFormat {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(LogFormatJSON):
		return LogFormatJSON
	default:
		return LogFormatText
	}
}
