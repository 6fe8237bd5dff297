package logger

import (
	"log/slog"
	"time"
)

// Group bundles attributes under a single key.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error returns an "error" attribute, or an empty attribute for nil.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

func UserID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("user_id", id)
}

func RequestID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("request_id", id)
}

func NotificationID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("notification_id", id)
}

// EventType accepts any string-like value (notification.EventType included).
func EventType[T ~string](v T) slog.Attr {
	return slog.String("event_type", string(v))
}

func Priority[T ~string](v T) slog.Attr {
	return slog.String("priority", string(v))
}

func Channel[T ~string](v T) slog.Attr {
	return slog.String("channel", string(v))
}

func Status[T ~string](v T) slog.Attr {
	return slog.String("status", string(v))
}

// Attempt is the ordinal of a channel send within one dispatch run.
func Attempt(n int) slog.Attr {
	return slog.Int("attempt", n)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}
