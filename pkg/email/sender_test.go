package email_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/trustnotify/pkg/email"
)

func TestNew(t *testing.T) {
	t.Parallel()

	valid := email.Config{
		SenderEmail:          "noreply@example.com",
		SupportEmail:         "support@example.com",
		PostmarkServerToken:  "server",
		PostmarkAccountToken: "account",
		SMTPHost:             "smtp.example.com",
		SMTPPort:             587,
		DevDir:               t.TempDir(),
	}

	tests := []struct {
		name     string
		mutate   func(*email.Config)
		wantNil  bool
		wantErr  bool
		contains string
	}{
		{name: "none", mutate: func(c *email.Config) { c.Provider = email.ProviderNone }, wantNil: true},
		{name: "empty provider", mutate: func(c *email.Config) { c.Provider = "" }, wantNil: true},
		{name: "postmark", mutate: func(c *email.Config) { c.Provider = email.ProviderPostmark }},
		{name: "smtp", mutate: func(c *email.Config) { c.Provider = email.ProviderSMTP }},
		{name: "dev", mutate: func(c *email.Config) { c.Provider = email.ProviderDev }},
		{name: "unknown", mutate: func(c *email.Config) { c.Provider = "carrier-pigeon" }, wantErr: true, contains: "unknown provider"},
		{
			name: "postmark without server token",
			mutate: func(c *email.Config) {
				c.Provider = email.ProviderPostmark
				c.PostmarkServerToken = ""
			},
			wantErr:  true,
			contains: "PostmarkServerToken is required",
		},
		{
			name: "postmark without account token",
			mutate: func(c *email.Config) {
				c.Provider = email.ProviderPostmark
				c.PostmarkAccountToken = ""
			},
			wantErr:  true,
			contains: "PostmarkAccountToken is required",
		},
		{
			name: "smtp without host",
			mutate: func(c *email.Config) {
				c.Provider = email.ProviderSMTP
				c.SMTPHost = ""
			},
			wantErr:  true,
			contains: "SMTPHost is required",
		},
		{
			name: "smtp with bad port",
			mutate: func(c *email.Config) {
				c.Provider = email.ProviderSMTP
				c.SMTPPort = 0
			},
			wantErr:  true,
			contains: "SMTPPort",
		},
		{
			name: "smtp from overrides sender",
			mutate: func(c *email.Config) {
				c.Provider = email.ProviderSMTP
				c.SenderEmail = ""
				c.SMTPFrom = "alerts@example.com"
			},
		},
		{
			name: "invalid sender",
			mutate: func(c *email.Config) {
				c.Provider = email.ProviderSMTP
				c.SenderEmail = "nope"
			},
			wantErr:  true,
			contains: "SenderEmail must be a valid email address",
		},
		{
			name: "invalid support",
			mutate: func(c *email.Config) {
				c.Provider = email.ProviderPostmark
				c.SupportEmail = "nope"
			},
			wantErr:  true,
			contains: "SupportEmail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid
			tt.mutate(&cfg)
			sender, err := email.New(cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, email.ErrInvalidConfig)
				assert.Contains(t, err.Error(), tt.contains)
				assert.Nil(t, sender)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, sender)
			} else {
				assert.NotNil(t, sender)
			}
		})
	}
}

func TestPostmarkClient_RejectsInvalidParams(t *testing.T) {
	t.Parallel()

	sender, err := email.NewPostmarkClient(email.Config{
		PostmarkServerToken:  "server",
		PostmarkAccountToken: "account",
		SenderEmail:          "noreply@example.com",
	})
	require.NoError(t, err)

	err = sender.SendEmail(context.Background(), email.SendEmailParams{Subject: "s", BodyText: "b"})
	assert.ErrorIs(t, err, email.ErrInvalidParams)
}

func TestDevSender(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested")
	sender := email.NewDevSender(dir)

	err := sender.SendEmail(context.Background(), email.SendEmailParams{
		SendTo:   "user@example.com",
		Subject:  "Notification: OTP",
		BodyText: "Your login OTP is 123456. Do not share it.",
	})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var bodyFile, metaFile string
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".txt"):
			bodyFile = filepath.Join(dir, e.Name())
		case strings.HasSuffix(e.Name(), ".json"):
			metaFile = filepath.Join(dir, e.Name())
		}
	}
	require.NotEmpty(t, bodyFile)
	require.NotEmpty(t, metaFile)
	assert.Contains(t, bodyFile, "notification_otp")

	body, err := os.ReadFile(bodyFile)
	require.NoError(t, err)
	assert.Equal(t, "Your login OTP is 123456. Do not share it.", string(body))

	raw, err := os.ReadFile(metaFile)
	require.NoError(t, err)
	var meta map[string]string
	require.NoError(t, json.Unmarshal(raw, &meta))
	assert.Equal(t, "user@example.com", meta["send_to"])
	assert.Equal(t, "Notification: OTP", meta["subject"])
}

func TestDevSender_InvalidParams(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "never-created")
	err := email.NewDevSender(dir).SendEmail(context.Background(), email.SendEmailParams{SendTo: "user@example.com"})
	assert.ErrorIs(t, err, email.ErrInvalidParams)

	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}
