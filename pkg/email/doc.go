// Package email sends plain-text notification mail through a pluggable
// provider.
//
// Three Sender implementations are provided:
//   - NewPostmarkClient delivers through Postmark's transactional API.
//   - NewSMTPClient delivers through any SMTP relay (gopkg.in/mail.v2).
//   - NewDevSender writes each message to a directory for local inspection.
//
// New picks one of them from Config.Provider. Every implementation validates
// SendEmailParams before doing any I/O and wraps transport failures in
// ErrFailedToSendEmail, so callers can match on the sentinel:
//
//	if errors.Is(err, email.ErrInvalidParams) {
//	    // bad recipient or empty content
//	}
package email
