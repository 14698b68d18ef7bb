package session

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-jwt-secret")

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestManager_IssueVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	m := NewManager(testSecret, 7*24*time.Hour)
	subject := uuid.NewString()

	token, exp, err := m.Issue(subject, "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), exp, 2*time.Second)

	id, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, subject, id.SubjectID)
	assert.Equal(t, "admin", id.Role)
}

func TestManager_Issue_SetsExpectedClaims(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m := &Manager{Secret: testSecret, TTL: time.Hour, Now: fixedClock(issuedAt)}

	token, _, err := m.Issue("user-1", "user")
	require.NoError(t, err)

	var claims Claims
	_, _, err = jwt.NewParser().ParseUnverified(token, &claims)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "user", claims.Role)
	assert.NotEmpty(t, claims.ID)
	assert.True(t, claims.IssuedAt.Time.Equal(issuedAt))
	assert.True(t, claims.ExpiresAt.Time.Equal(issuedAt.Add(time.Hour)))
}

func TestManager_Verify_Failures(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer := &Manager{Secret: testSecret, TTL: time.Hour, Now: fixedClock(issuedAt)}

	valid, _, err := issuer.Issue("user-1", "user")
	require.NoError(t, err)

	foreign, _, err := (&Manager{Secret: []byte("other-secret"), TTL: time.Hour, Now: fixedClock(issuedAt)}).Issue("user-1", "admin")
	require.NoError(t, err)

	escalated, _, err := issuer.Issue("user-1", "admin")
	require.NoError(t, err)

	// admin payload carrying the signature of the user token
	userParts := strings.Split(valid, ".")
	adminParts := strings.Split(escalated, ".")
	tampered := adminParts[0] + "." + adminParts[1] + "." + userParts[2]

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Role:             "admin",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	badRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:             "root",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour))},
	}).SignedString(testSecret)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		now   time.Time
		want  error
	}{
		{name: "garbage", token: "not-a-token", now: issuedAt, want: ErrMalformed},
		{name: "empty", token: "", now: issuedAt, want: ErrMalformed},
		{name: "foreign secret", token: foreign, now: issuedAt, want: ErrSignatureInvalid},
		{name: "tampered payload", token: tampered, now: issuedAt, want: ErrSignatureInvalid},
		{name: "none algorithm", token: noneAlg, now: issuedAt, want: ErrSignatureInvalid},
		{name: "expired", token: valid, now: issuedAt.Add(time.Hour + time.Minute), want: ErrExpired},
		{name: "unknown role", token: badRole, now: issuedAt, want: ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			verifier := &Manager{Secret: testSecret, TTL: time.Hour, Now: fixedClock(tt.now)}
			id, err := verifier.Verify(tt.token)
			assert.Nil(t, id)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestManager_Verify_JustBeforeExpiry(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m := &Manager{Secret: testSecret, TTL: time.Hour, Now: fixedClock(issuedAt)}

	token, _, err := m.Issue("user-1", "user")
	require.NoError(t, err)

	m.Now = fixedClock(issuedAt.Add(59 * time.Minute))
	id, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id.SubjectID)
}

func TestIdentityContext(t *testing.T) {
	t.Parallel()

	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := IntoContext(context.Background(), &Identity{SubjectID: "u", Role: "admin"})
	id, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "admin", id.Role)
}

func TestCookies(t *testing.T) {
	t.Parallel()

	c := CreateCookie("abc", 7*24*time.Hour, true)
	assert.Equal(t, CookieName, c.Name)
	assert.Equal(t, "abc", c.Value)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	assert.Equal(t, 7*24*60*60, c.MaxAge)

	d := DeleteCookie(false)
	assert.Empty(t, d.Value)
	assert.Equal(t, -1, d.MaxAge)
	assert.True(t, d.Expires.Equal(time.Unix(0, 0)))
	assert.False(t, d.Secure)
}
