// Package sms sends text messages through Twilio or, in development, to the
// structured log.
//
// Both implementations satisfy Sender. New builds one from Config.Driver;
// the "none" driver returns a nil Sender so callers can treat SMS as
// unconfigured instead of failing at startup.
package sms
