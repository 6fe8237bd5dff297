// Package logger builds *slog.Logger instances for the notification service
// and keeps attribute naming consistent across packages.
//
// New assembles a handler from functional options: output format, minimum
// level, static attributes and ContextExtractor callbacks. The resulting
// handler is wrapped by LogHandlerDecorator, which runs the extractors on
// every record so request-scoped values (for example the request id) show up
// without threading a logger through each call.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, cfg.AppName),
//	    logger.WithContextExtractors(api.RequestIDExtractor()),
//	)
//	logger.SetAsDefault(log)
//
//	log.InfoContext(ctx, "notification dispatched",
//	    logger.NotificationID(rec.ID),
//	    logger.Channel(rec.ChannelUsed),
//	    logger.Attempt(rec.Attempts),
//	)
//
// Attribute helpers return an empty slog.Attr for nil input, which slog
// drops silently, so callers never need to guard optional values.
package logger
