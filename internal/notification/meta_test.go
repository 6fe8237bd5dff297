package notification_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/trustnotify/internal/notification"
)

func TestMeta_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    notification.Meta
		wantErr bool
	}{
		{
			name:  "strings",
			input: `{"phone":"+15550001111","otp":"042193"}`,
			want:  notification.Meta{"phone": "+15550001111", "otp": "042193"},
		},
		{
			name:  "numbers keep their literal form",
			input: `{"amount":500,"rate":12.50,"otp":42193}`,
			want:  notification.Meta{"amount": "500", "rate": "12.50", "otp": "42193"},
		},
		{
			name:  "booleans and nulls",
			input: `{"urgent":true,"read":false,"note":null}`,
			want:  notification.Meta{"urgent": "true", "read": "false"},
		},
		{
			name:  "null document",
			input: `null`,
			want:  nil,
		},
		{
			name:    "nested object",
			input:   `{"device":{"os":"android"}}`,
			wantErr: true,
		},
		{
			name:    "array",
			input:   `{"tags":["a"]}`,
			wantErr: true,
		},
		{
			name:    "not an object",
			input:   `"phone"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var m notification.Meta
			err := json.Unmarshal([]byte(tt.input), &m)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m)
		})
	}
}

func TestMeta_Get(t *testing.T) {
	t.Parallel()

	var nilMeta notification.Meta
	assert.Equal(t, "", nilMeta.Get(notification.MetaPhone))
	assert.Nil(t, nilMeta.Clone())

	m := notification.Meta{notification.MetaAmount: "500"}
	assert.Equal(t, "500", m.Get(notification.MetaAmount))

	c := m.Clone()
	c[notification.MetaAmount] = "600"
	assert.Equal(t, "500", m.Get(notification.MetaAmount))
}

func TestMeta_InsideStruct(t *testing.T) {
	t.Parallel()

	var req struct {
		EventType string            `json:"eventType"`
		Meta      notification.Meta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"eventType":"TRANSACTION_DEBIT","meta":{"amount":1500}}`), &req))
	assert.Equal(t, "1500", req.Meta.Get(notification.MetaAmount))
}
