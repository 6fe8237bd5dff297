package signature

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"
	"unicode/utf8"
)

// TimeLayout is the ISO-8601 form createdAt takes inside the signed payload.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// Payload is the subset of a notification covered by the signature.
// Field order here is the serialization order.
type Payload struct {
	UserID    string `json:"userId"`
	Message   string `json:"message"`
	EventType string `json:"eventType"`
	CreatedAt string `json:"createdAt"`
}

// FormatTime renders t the way it appears in a Payload.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// Canonical returns the exact bytes that are signed. Every field must be
// valid UTF-8. U+2028 and U+2029 are written raw, matching JSON.stringify.
func (p Payload) Canonical() ([]byte, error) {
	for _, field := range []string{p.UserID, p.Message, p.EventType, p.CreatedAt} {
		if !utf8.ValidString(field) {
			return nil, errors.Join(ErrEncodePayload, ErrInvalidUTF8)
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		return nil, errors.Join(ErrEncodePayload, err)
	}
	return unescapeLineSeparators(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// unescapeLineSeparators rewrites the \u2028 and \u2029 escapes produced by
// encoding/json as raw runes. Other escape sequences are copied untouched.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] != '\\' || i+1 >= len(data) {
			out = append(out, data[i])
			continue
		}
		if data[i+1] == 'u' && i+6 <= len(data) {
			switch string(data[i+2 : i+6]) {
			case "2028":
				out = utf8.AppendRune(out, '\u2028')
				i += 5
				continue
			case "2029":
				out = utf8.AppendRune(out, '\u2029')
				i += 5
				continue
			}
		}
		out = append(out, data[i], data[i+1])
		i++
	}
	return out
}

// Signer holds the process-wide secret. It is safe for concurrent use.
type Signer struct {
	secret []byte
}

// New fails when secret is empty; a service must not start without a key.
func New(secret string) (*Signer, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &Signer{secret: []byte(secret)}, nil
}

// MustNew panics on an empty secret.
func MustNew(secret string) *Signer {
	s, err := New(secret)
	if err != nil {
		panic(err)
	}
	return s
}

// Sign returns the hex-encoded HMAC-SHA256 of the canonical payload.
func (s *Signer) Sign(p Payload) (string, error) {
	data, err := p.Canonical()
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(data)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// Verify recomputes the tag for p and compares it to tag in constant time.
func (s *Signer) Verify(p Payload, tag string) bool {
	if tag == "" {
		return false
	}
	expected, err := s.Sign(p)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(expected), []byte(tag))
}
