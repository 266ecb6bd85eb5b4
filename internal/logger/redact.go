package logger

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

// Field keys whose values are masked before encoding. Matching is by
// substring, lowercase, so "slack_token" and "Authorization" both hit.
var secretKeySubstrings = []string{
	"token",
	"password",
	"secret",
	"authorization",
}

const maskedValue = "[redacted]"

// Redact masks a secret for display, keeping a short prefix and suffix of
// long values so two secrets remain distinguishable in logs.
func Redact(s string) string {
	if len(s) <= 12 {
		return maskedValue
	}
	return s[:4] + "…" + s[len(s)-4:]
}

func isSecretKey(key string) bool {
	k := strings.ToLower(key)
	for _, sub := range secretKeySubstrings {
		if strings.Contains(k, sub) {
			return true
		}
	}
	return false
}

// redactFields rewrites secret-keyed fields. String values are shortened via
// Redact; anything else is replaced wholesale, since partial masking of a
// structured value could still leak it.
func redactFields(fields []zapcore.Field) []zapcore.Field {
	out := fields
	copied := false
	for i, f := range fields {
		if !isSecretKey(f.Key) {
			continue
		}
		if !copied {
			out = make([]zapcore.Field, len(fields))
			copy(out, fields)
			copied = true
		}
		masked := maskedValue
		if f.Type == zapcore.StringType {
			masked = Redact(f.String)
		}
		out[i] = zapcore.Field{Key: f.Key, Type: zapcore.StringType, String: masked}
	}
	return out
}

// redactCore applies the field transform at write time, so redaction holds
// for every call site rather than depending on caller discipline.
type redactCore struct {
	zapcore.Core
}

func withRedaction(c zapcore.Core) zapcore.Core {
	return redactCore{Core: c}
}

func (c redactCore) With(fields []zapcore.Field) zapcore.Core {
	return redactCore{Core: c.Core.With(redactFields(fields))}
}

func (c redactCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c redactCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	return c.Core.Write(ent, redactFields(fields))
}
