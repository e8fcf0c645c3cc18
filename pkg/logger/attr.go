package logger

import (
	"log/slog"
	"maps"
	"slices"
)

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserID records the identity id under the key "user_id".
// If id is nil, it returns an empty Attr.
func UserID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("user_id", id)
}

// Role records a role name under the key "role".
func Role(role string) slog.Attr {
	if role == "" {
		return slog.Attr{}
	}
	return slog.String("role", role)
}

// Email records an email address under the key "email".
func Email(email string) slog.Attr {
	if email == "" {
		return slog.Attr{}
	}
	return slog.String("email", email)
}

// RequestID records the request identifier under the key "request_id".
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func Event(name string) slog.Attr {
	return slog.String("event", name)
}

func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}

// Reason records why a request was rejected under the key "reason".
func Reason(reason string) slog.Attr {
	return slog.String("reason", reason)
}

// Context groups a free-form mapping under the key "context", with keys sorted.
// An empty mapping yields an empty Attr.
func Context(fields map[string]any) slog.Attr {
	if len(fields) == 0 {
		return slog.Attr{}
	}
	attrs := make([]slog.Attr, 0, len(fields))
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		attrs = append(attrs, slog.Any(k, fields[k]))
	}
	return slog.Attr{Key: "context", Value: slog.GroupValue(attrs...)}
}
