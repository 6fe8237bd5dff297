// Command trustnotify runs the notification dispatch service.
//
// Usage:
//
//	trustnotify                                  serve HTTP until SIGINT/SIGTERM
//	trustnotify token -user ID [-email A] [-phone N]   print a bearer token for a user
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/trustnotify/internal/api"
	"github.com/dmitrymomot/trustnotify/internal/auth"
	"github.com/dmitrymomot/trustnotify/internal/channel"
	"github.com/dmitrymomot/trustnotify/internal/config"
	"github.com/dmitrymomot/trustnotify/internal/dispatch"
	"github.com/dmitrymomot/trustnotify/internal/inbox"
	"github.com/dmitrymomot/trustnotify/internal/notification"
	"github.com/dmitrymomot/trustnotify/internal/store"
	"github.com/dmitrymomot/trustnotify/pkg/email"
	"github.com/dmitrymomot/trustnotify/pkg/logger"
	"github.com/dmitrymomot/trustnotify/pkg/redis"
	"github.com/dmitrymomot/trustnotify/pkg/signature"
	"github.com/dmitrymomot/trustnotify/pkg/sms"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "trustnotify:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) > 0 && args[0] == "token" {
		cfg, err := config.LoadToken()
		if err != nil {
			return err
		}
		return mintToken(cfg, args[1:], stdout)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg)
}

func newLogger(cfg config.Config) *slog.Logger {
	log := logger.New(
		logger.WithEnvironment(cfg.AppEnv, cfg.AppName),
		logger.WithLevelName(cfg.LogLevel),
		logger.WithContextExtractors(api.RequestIDExtractor()),
	)
	logger.SetAsDefault(log)
	return log
}

func serve(ctx context.Context, cfg config.Config) error {
	log := newLogger(cfg)

	signer, err := signature.New(cfg.SigningSecret)
	if err != nil {
		return err
	}

	authSvc, err := auth.New(cfg.JWTSecret, cfg.JWTTTL, auth.WithIssuer(cfg.AppName))
	if err != nil {
		return err
	}

	records, err := store.Open(ctx, cfg.Store, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := records.Close(context.Background()); err != nil {
			log.Error("failed to close store", logger.Error(err))
		}
	}()

	hub := inbox.NewHub(
		inbox.WithBufferSize(cfg.InboxBufferSize),
		inbox.WithMaxUsers(cfg.InboxMaxUsers),
		inbox.WithHubLogger(log),
	)
	defer hub.Close()

	readiness := []api.ReadinessCheck{records.Ping}

	var (
		publisher inbox.Publisher = hub
		relay     *inbox.Relay
	)
	if cfg.Redis.ConnectionURL != "" {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer func() { _ = client.Close() }()

		relay = inbox.NewRelay(hub, client, log)
		publisher = relay
		readiness = append(readiness, redis.Healthcheck(client))
	}

	smsSender, emailSender, err := newSenders(cfg, log)
	if err != nil {
		return err
	}

	engine, err := dispatch.New(signer, records, []channel.Adapter{
		channel.NewSMS(smsSender, log),
		channel.NewEmail(emailSender, log),
		channel.NewInApp(publisher, log),
	},
		dispatch.WithLogger(log),
		dispatch.WithAttemptTimeout(cfg.AttemptTimeout),
	)
	if err != nil {
		return err
	}

	router := api.NewRouter(api.Deps{
		Dispatcher: engine,
		Records:    records,
		Verifier:   signer,
		Inbox:      hub,
		Auth:       authSvc,
		Readiness:  readiness,
		CORS:       cfg.CORS,
		Logger:     log,
	})
	server := api.NewServer(cfg.HTTP, router, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Run(gctx) })
	if relay != nil {
		g.Go(func() error { return relay.Run(gctx) })
	}

	log.Info("trustnotify started",
		slog.String("addr", cfg.HTTP.Addr),
		slog.String("store", cfg.Store.Driver),
		slog.Bool("relay", relay != nil),
	)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("trustnotify stopped")
	return nil
}

// newSenders builds the provider clients. A provider that rejects its
// settings is left nil and logged, so sends on its channel fail over
// instead of the process refusing to start.
func newSenders(cfg config.Config, log *slog.Logger) (sms.Sender, email.Sender, error) {
	smsSender, err := sms.New(cfg.SMS, log)
	switch {
	case errors.Is(err, sms.ErrInvalidConfig):
		log.Warn("sms provider rejected its config", slog.String("driver", cfg.SMS.Driver), logger.Error(err))
		smsSender = nil
	case err != nil:
		return nil, nil, err
	}
	if smsSender == nil {
		log.Warn("sms provider not configured; sms sends will fail over")
	}

	emailSender, err := email.New(cfg.Email)
	switch {
	case errors.Is(err, email.ErrInvalidConfig):
		log.Warn("email transport rejected its config", slog.String("driver", cfg.Email.Provider), logger.Error(err))
		emailSender = nil
	case err != nil:
		return nil, nil, err
	}
	if emailSender == nil {
		log.Warn("email transport not configured; email sends will fail over")
	}

	return smsSender, emailSender, nil
}

func mintToken(cfg config.TokenConfig, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	userID := fs.String("user", "", "user id (token subject)")
	userEmail := fs.String("email", "", "recipient email address")
	userPhone := fs.String("phone", "", "recipient phone number")
	if err := fs.Parse(args); err != nil {
		return err
	}

	svc, err := auth.New(cfg.JWTSecret, cfg.JWTTTL, auth.WithIssuer(cfg.AppName))
	if err != nil {
		return err
	}

	token, err := svc.Issue(notification.User{
		ID:    *userID,
		Email: *userEmail,
		Phone: sms.NormalizePhone(*userPhone),
	})
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(stdout, token)
	return err
}
