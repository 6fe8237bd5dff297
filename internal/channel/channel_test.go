package channel_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/trustnotify/internal/channel"
	"github.com/dmitrymomot/trustnotify/internal/inbox"
	"github.com/dmitrymomot/trustnotify/internal/notification"
	"github.com/dmitrymomot/trustnotify/pkg/email"
	"github.com/dmitrymomot/trustnotify/pkg/sms"
)

type mockSMSSender struct {
	mock.Mock
}

func (m *mockSMSSender) SendSMS(ctx context.Context, params sms.SendSMSParams) error {
	return m.Called(ctx, params).Error(0)
}

type mockEmailSender struct {
	mock.Mock
}

func (m *mockEmailSender) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	return m.Called(ctx, params).Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, msg inbox.Message) (int, error) {
	args := m.Called(ctx, msg)
	return args.Int(0), args.Error(1)
}

func delivery(meta notification.Meta) channel.Delivery {
	return channel.Delivery{
		User:      notification.User{ID: "u1", Email: "user@example.com", Phone: "+15550001111"},
		EventType: notification.EventOTP,
		Priority:  notification.PriorityCritical,
		Message:   "Your login OTP is 1234. Do not share it.",
		Meta:      meta,
	}
}

func TestSMS_Send(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		sender    func() *mockSMSSender
		nilSender bool
		meta      notification.Meta
		user      *notification.User
		want      channel.Result
	}{
		{
			name: "meta phone wins",
			sender: func() *mockSMSSender {
				m := &mockSMSSender{}
				m.On("SendSMS", mock.Anything, sms.SendSMSParams{To: "+919876543210", Body: "Your login OTP is 1234. Do not share it."}).Return(nil).Once()
				return m
			},
			meta: notification.Meta{notification.MetaPhone: "+919876543210"},
			want: channel.Succeeded(),
		},
		{
			name: "falls back to user phone",
			sender: func() *mockSMSSender {
				m := &mockSMSSender{}
				m.On("SendSMS", mock.Anything, mock.MatchedBy(func(p sms.SendSMSParams) bool { return p.To == "+15550001111" })).Return(nil).Once()
				return m
			},
			want: channel.Succeeded(),
		},
		{
			name:      "unconfigured",
			nilSender: true,
			want:      channel.Failed(channel.ReasonSMSNotConfigured),
		},
		{
			name:   "no phone anywhere",
			sender: func() *mockSMSSender { return &mockSMSSender{} },
			user:   &notification.User{ID: "u1"},
			want:   channel.Failed(channel.ReasonNoPhone),
		},
		{
			name: "transport error becomes failure",
			sender: func() *mockSMSSender {
				m := &mockSMSSender{}
				m.On("SendSMS", mock.Anything, mock.Anything).Return(errors.New("provider down")).Once()
				return m
			},
			want: channel.Failed("provider down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var adapter *channel.SMS
			var m *mockSMSSender
			if tt.nilSender {
				adapter = channel.NewSMS(nil, nil)
			} else {
				m = tt.sender()
				adapter = channel.NewSMS(m, nil)
			}

			d := delivery(tt.meta)
			if tt.user != nil {
				d.User = *tt.user
			}

			assert.Equal(t, notification.ChannelSMS, adapter.Channel())
			assert.Equal(t, tt.want, adapter.Send(context.Background(), d))
			if m != nil {
				m.AssertExpectations(t)
			}
		})
	}
}

func TestEmail_Send(t *testing.T) {
	t.Parallel()

	t.Run("subject and plain body", func(t *testing.T) {
		t.Parallel()

		m := &mockEmailSender{}
		m.On("SendEmail", mock.Anything, email.SendEmailParams{
			SendTo:   "override@example.com",
			Subject:  "Notification: OTP",
			BodyText: "Your login OTP is 1234. Do not share it.",
			Tag:      "OTP",
		}).Return(nil).Once()

		res := channel.NewEmail(m, nil).Send(context.Background(), delivery(notification.Meta{notification.MetaEmail: "override@example.com"}))
		assert.True(t, res.Success)
		m.AssertExpectations(t)
	})

	t.Run("falls back to user email", func(t *testing.T) {
		t.Parallel()

		m := &mockEmailSender{}
		m.On("SendEmail", mock.Anything, mock.MatchedBy(func(p email.SendEmailParams) bool { return p.SendTo == "user@example.com" })).Return(nil).Once()

		res := channel.NewEmail(m, nil).Send(context.Background(), delivery(nil))
		assert.True(t, res.Success)
		m.AssertExpectations(t)
	})

	t.Run("unconfigured", func(t *testing.T) {
		t.Parallel()

		a := channel.NewEmail(nil, nil)
		assert.Equal(t, notification.ChannelEmail, a.Channel())
		assert.Equal(t, channel.Failed(channel.ReasonEmailNotConfigured), a.Send(context.Background(), delivery(nil)))
	})

	t.Run("no address", func(t *testing.T) {
		t.Parallel()

		d := delivery(nil)
		d.User.Email = ""
		res := channel.NewEmail(&mockEmailSender{}, nil).Send(context.Background(), d)
		assert.Equal(t, channel.Failed(channel.ReasonNoEmail), res)
	})

	t.Run("transport error", func(t *testing.T) {
		t.Parallel()

		m := &mockEmailSender{}
		m.On("SendEmail", mock.Anything, mock.Anything).Return(email.ErrFailedToSendEmail).Once()
		res := channel.NewEmail(m, nil).Send(context.Background(), delivery(nil))
		assert.False(t, res.Success)
		assert.Equal(t, email.ErrFailedToSendEmail.Error(), res.Error)
	})
}

func TestSubject(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Notification: BILL_PAYMENT", channel.Subject(notification.EventBillPayment))
}

func TestInApp_Send(t *testing.T) {
	t.Parallel()

	t.Run("publishes to the live inbox", func(t *testing.T) {
		t.Parallel()

		hub := inbox.NewHub()
		defer hub.Close()
		sub, err := hub.Subscribe(context.Background(), "u1")
		require.NoError(t, err)

		a := channel.NewInApp(hub, nil)
		assert.Equal(t, notification.ChannelInApp, a.Channel())
		assert.True(t, a.Send(context.Background(), delivery(nil)).Success)

		msg := <-sub.C
		assert.Equal(t, "u1", msg.UserID)
		assert.Equal(t, notification.EventOTP, msg.EventType)
		assert.Equal(t, notification.PriorityCritical, msg.Priority)
		assert.False(t, msg.SentAt.IsZero())
	})

	t.Run("publish errors still succeed", func(t *testing.T) {
		t.Parallel()

		m := &mockPublisher{}
		m.On("Publish", mock.Anything, mock.Anything).Return(0, inbox.ErrHubClosed).Once()
		assert.True(t, channel.NewInApp(m, nil).Send(context.Background(), delivery(nil)).Success)
		m.AssertExpectations(t)
	})

	t.Run("no publisher", func(t *testing.T) {
		t.Parallel()
		assert.True(t, channel.NewInApp(nil, nil).Send(context.Background(), delivery(nil)).Success)
	})
}
