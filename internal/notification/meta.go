package notification

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Well-known Meta keys.
const (
	MetaPhone     = "phone"
	MetaEmail     = "email"
	MetaOTP       = "otp"
	MetaAmount    = "amount"
	MetaOfferName = "offerName"
)

// Meta is the free-form sidecar attached to a notification. It is not
// covered by the signature.
type Meta map[string]string

// Get returns the value for key or "" when absent. Safe on a nil Meta.
func (m Meta) Get(key string) string {
	if m == nil {
		return ""
	}
	return m[key]
}

func (m Meta) Clone() Meta {
	if m == nil {
		return nil
	}
	out := make(Meta, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// UnmarshalJSON accepts string, number and boolean values and stores their
// textual form. Null values are skipped; objects and arrays are rejected.
func (m *Meta) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*m = nil
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("meta: %w", err)
	}

	out := make(Meta, len(raw))
	for k, v := range raw {
		s, ok, err := scalarString(v)
		if err != nil {
			return fmt.Errorf("meta: key %q: %w", k, err)
		}
		if ok {
			out[k] = s
		}
	}
	*m = out
	return nil
}

func scalarString(v json.RawMessage) (string, bool, error) {
	v = bytes.TrimSpace(v)
	if len(v) == 0 {
		return "", false, nil
	}
	switch v[0] {
	case '"':
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return "", false, err
		}
		return s, true, nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(v, &b); err != nil {
			return "", false, err
		}
		return strconv.FormatBool(b), true, nil
	case 'n':
		return "", false, nil
	case '{', '[':
		return "", false, fmt.Errorf("nested values are not supported")
	default:
		var n json.Number
		if err := json.Unmarshal(v, &n); err != nil {
			return "", false, err
		}
		return n.String(), true, nil
	}
}
