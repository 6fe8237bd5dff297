// Package signature computes and verifies HMAC-SHA256 tags over the
// canonical four-field notification payload.
//
// The canonical form is compact JSON with a fixed key order:
//
//	{"userId":"...","message":"...","eventType":"...","createdAt":"2006-01-02T15:04:05.000Z"}
//
// HTML characters are not escaped and the timestamp is rendered in UTC with
// millisecond precision, so any party holding the secret and the four values
// can reproduce the tag byte for byte.
package signature
