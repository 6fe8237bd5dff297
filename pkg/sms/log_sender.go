package sms

import (
	"context"
	"log/slog"
)

// LogSender records messages in the log instead of sending them.
type LogSender struct {
	log *slog.Logger
}

func NewLogSender(log *slog.Logger) *LogSender {
	if log == nil {
		log = slog.Default()
	}
	return &LogSender{log: log.With(slog.String("component", "sms.log"))}
}

func (s *LogSender) SendSMS(ctx context.Context, params SendSMSParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "sms message",
		slog.String("to", NormalizePhone(params.To)),
		slog.String("body", params.Body),
	)
	return nil
}
