// Package templates renders the default message body for an event type when
// the caller does not supply one.
package templates

import (
	"fmt"

	"github.com/dmitrymomot/trustnotify/internal/notification"
)

// Fallback is the body used for event types without a template.
const Fallback = "Notification"

// Resolve returns the body for eventType filled from meta. Missing meta
// values render as empty strings; Resolve never fails.
func Resolve(eventType notification.EventType, meta notification.Meta) string {
	switch eventType {
	case notification.EventOTP:
		return fmt.Sprintf("Your login OTP is %s. Do not share it.", meta.Get(notification.MetaOTP))
	case notification.EventPasswordChange:
		return "Your password was changed. If this wasn't you, contact support."
	case notification.EventLoginAlert:
		return "A login was made to your account. If this wasn't you, secure your account."
	case notification.EventDeviceRegistration:
		return "A new device was registered to your account."
	case notification.EventSuspiciousActivity:
		return "Suspicious activity detected in your account."
	case notification.EventTransactionDebit:
		return fmt.Sprintf("Rs.%s was debited from your account.", meta.Get(notification.MetaAmount))
	case notification.EventTransactionCredit:
		return fmt.Sprintf("Rs.%s was credited to your account.", meta.Get(notification.MetaAmount))
	case notification.EventBillPayment:
		return fmt.Sprintf("Your bill of Rs.%s has been paid.", meta.Get(notification.MetaAmount))
	case notification.EventEMIReminder:
		return fmt.Sprintf("Your EMI of Rs.%s is due soon.", meta.Get(notification.MetaAmount))
	case notification.EventStatementReady:
		return "Your monthly statement is ready."
	case notification.EventOfferAlert:
		return fmt.Sprintf("New offer available: %s", meta.Get(notification.MetaOfferName))
	default:
		return Fallback
	}
}

// Body picks the final message: an explicit message wins, even when empty.
func Body(explicit *string, eventType notification.EventType, meta notification.Meta) string {
	if explicit != nil {
		return *explicit
	}
	return Resolve(eventType, meta)
}
