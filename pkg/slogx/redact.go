package slogx

import (
	"log/slog"
	"strings"
)

// Redacted replaces any value judged sensitive.
const Redacted = "***REDACTED***"

var sensitiveKeys = []string{
	"token",
	"secret",
	"pepper",
	"password",
	"authorization",
}

// linkPrefixes are the public routes whose next path segment is a raw token.
var linkPrefixes = []string{"invite", "questionnaire", "magic", "reset"}

// Redact masks string attributes whose key looks sensitive and recurses into
// groups.
func Redact(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		if a.Value.String() != "" && IsSensitiveKey(a.Key) {
			return slog.String(a.Key, Redacted)
		}
		if a.Key == "path" {
			return slog.String(a.Key, RedactPath(a.Value.String()))
		}
	case slog.KindGroup:
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = Redact(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}
	return a
}

// IsSensitiveKey reports whether key names a secret.
func IsSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(k, s) {
			return true
		}
	}
	return false
}

// RedactPath blanks the token segment of a link URL path, e.g.
// /invite/<token>/accept becomes /invite/***REDACTED***/accept.
func RedactPath(p string) string {
	segs := strings.Split(p, "/")
	changed := false
	for i := 0; i+1 < len(segs); i++ {
		for _, prefix := range linkPrefixes {
			if segs[i] == prefix && segs[i+1] != "" {
				segs[i+1] = Redacted
				changed = true
			}
		}
	}
	if !changed {
		return p
	}
	return strings.Join(segs, "/")
}
