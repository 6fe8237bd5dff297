package notification

import "slices"

// EventType identifies what happened to the account.
type EventType string

const (
	EventOTP                EventType = "OTP"
	EventPasswordChange     EventType = "PASSWORD_CHANGE"
	EventLoginAlert         EventType = "LOGIN_ALERT"
	EventDeviceRegistration EventType = "DEVICE_REGISTRATION"
	EventSuspiciousActivity EventType = "SUSPICIOUS_ACTIVITY"
	EventTransactionDebit   EventType = "TRANSACTION_DEBIT"
	EventTransactionCredit  EventType = "TRANSACTION_CREDIT"
	EventBillPayment        EventType = "BILL_PAYMENT"
	EventEMIReminder        EventType = "EMI_REMINDER"
	EventStatementReady     EventType = "STATEMENT_READY"
	EventOfferAlert         EventType = "OFFER_ALERT"
)

var knownEvents = []EventType{
	EventOTP,
	EventPasswordChange,
	EventLoginAlert,
	EventDeviceRegistration,
	EventSuspiciousActivity,
	EventTransactionDebit,
	EventTransactionCredit,
	EventBillPayment,
	EventEMIReminder,
	EventStatementReady,
	EventOfferAlert,
}

// EventTypes lists every known event type.
func EventTypes() []EventType {
	return slices.Clone(knownEvents)
}

// Known reports whether e is one of the enumerated event types. Unknown
// types are still dispatched; they just get generic defaults.
func (e EventType) Known() bool {
	return slices.Contains(knownEvents, e)
}

type Priority string

const (
	PriorityCritical Priority = "CRITICAL"
	PriorityHigh     Priority = "HIGH"
	PriorityNormal   Priority = "NORMAL"
)

// Valid reports whether p is one of the three priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityNormal:
		return true
	}
	return false
}

// Escalates reports whether a failed primary send walks the fallback chain.
func (p Priority) Escalates() bool {
	return p == PriorityCritical || p == PriorityHigh
}

// OrDefault returns NORMAL for the empty priority.
func (p Priority) OrDefault() Priority {
	if p == "" {
		return PriorityNormal
	}
	return p
}

type Channel string

const (
	ChannelSMS   Channel = "SMS"
	ChannelEmail Channel = "EMAIL"
	ChannelInApp Channel = "IN_APP"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusSent      Status = "SENT"
	StatusFailed    Status = "FAILED"
	StatusDelivered Status = "DELIVERED"
)
