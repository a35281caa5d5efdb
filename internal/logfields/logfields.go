package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPath       = "path"
	KeyOffset     = "offset"
	KeyIdentifier = "identifier"
	KeyField      = "field"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyBuildID    = "build_id"
	KeyRoot       = "root"
	KeyOutput     = "output"
	KeyURL        = "url"
	KeySchedule   = "schedule"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Path(p string) slog.Attr           { return slog.String(KeyPath, p) }
func Offset(n int) slog.Attr            { return slog.Int(KeyOffset, n) }
func Identifier(id string) slog.Attr    { return slog.String(KeyIdentifier, id) }
func Field(f string) slog.Attr          { return slog.String(KeyField, f) }
func Count(n int) slog.Attr             { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr   { return slog.Float64(KeyDurationMS, ms) }
func BuildID(id string) slog.Attr       { return slog.String(KeyBuildID, id) }
func Root(r string) slog.Attr           { return slog.String(KeyRoot, r) }
func Output(o string) slog.Attr         { return slog.String(KeyOutput, o) }
func URL(u string) slog.Attr            { return slog.String(KeyURL, u) }
func Schedule(s string) slog.Attr       { return slog.String(KeySchedule, s) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
