package dispatch

import (
	"slices"

	"github.com/dmitrymomot/trustnotify/internal/notification"
)

var primaryChannels = map[notification.EventType]notification.Channel{
	notification.EventOTP:                notification.ChannelSMS,
	notification.EventPasswordChange:     notification.ChannelSMS,
	notification.EventLoginAlert:         notification.ChannelSMS,
	notification.EventDeviceRegistration: notification.ChannelEmail,
	notification.EventSuspiciousActivity: notification.ChannelSMS,
	notification.EventTransactionDebit:   notification.ChannelSMS,
	notification.EventTransactionCredit:  notification.ChannelSMS,
	notification.EventBillPayment:        notification.ChannelEmail,
	notification.EventEMIReminder:        notification.ChannelEmail,
	notification.EventStatementReady:     notification.ChannelInApp,
	notification.EventOfferAlert:         notification.ChannelInApp,
}

var fallbackChains = map[notification.Channel][]notification.Channel{
	notification.ChannelSMS:   {notification.ChannelEmail, notification.ChannelInApp},
	notification.ChannelEmail: {notification.ChannelInApp},
	notification.ChannelInApp: {},
}

// PrimaryChannel returns the first channel tried for eventType. Unmapped
// event types go to SMS.
func PrimaryChannel(eventType notification.EventType) notification.Channel {
	if ch, ok := primaryChannels[eventType]; ok {
		return ch
	}
	return notification.ChannelSMS
}

// FallbackChain returns the channels tried, in order, after ch fails on an
// escalating priority. The returned slice is a copy.
func FallbackChain(ch notification.Channel) []notification.Channel {
	return slices.Clone(fallbackChains[ch])
}

// Terminal reports whether ch ends every fallback chain.
func Terminal(ch notification.Channel) bool {
	return ch == notification.ChannelInApp
}
