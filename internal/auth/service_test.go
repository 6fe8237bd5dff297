package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/trustnotify/internal/auth"
	"github.com/dmitrymomot/trustnotify/internal/notification"
)

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := auth.New("", time.Hour)
	require.ErrorIs(t, err, auth.ErrMissingSigningKey)

	svc, err := auth.New("secret", 0)
	require.NoError(t, err)
	require.NotNil(t, svc)
}

func TestService_IssueParse(t *testing.T) {
	t.Parallel()

	svc, err := auth.New("secret", time.Hour, auth.WithIssuer("trustnotify"))
	require.NoError(t, err)

	user := notification.User{ID: "u1", Email: "a@example.com", Phone: "+15550001111"}
	token, err := svc.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, user, claims.User())
	assert.Equal(t, "trustnotify", claims.Issuer)
}

func TestService_Issue_RequiresSubject(t *testing.T) {
	t.Parallel()

	svc, err := auth.New("secret", time.Hour)
	require.NoError(t, err)

	_, err = svc.Issue(notification.User{Email: "a@example.com"})
	require.ErrorIs(t, err, auth.ErrMissingSubject)
}

func TestService_Parse_Rejects(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc, err := auth.New("secret", time.Hour, auth.WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	other, err := auth.New("other-secret", time.Hour, auth.WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	foreign, err := other.Issue(notification.User{ID: "u1"})
	require.NoError(t, err)

	stale, err := auth.New("secret", time.Minute, auth.WithClock(func() time.Time { return now.Add(-time.Hour) }))
	require.NoError(t, err)
	expired, err := stale.Issue(notification.User{ID: "u1"})
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "u1",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"wrong key", foreign},
		{"expired", expired},
		{"alg none", noneAlg},
		{"missing subject", noSubject},
		{"missing expiry", noExpiry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.Parse(tt.token)
			require.ErrorIs(t, err, auth.ErrInvalidToken)
		})
	}
}
