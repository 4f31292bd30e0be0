package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-lostfound-api/internal/token"
)

func TestManager_IssueValidate(t *testing.T) {
	m := NewManager("test-secret", time.Hour, nil)
	userID := uuid.New()

	tok, err := m.Issue(userID)
	require.NoError(t, err)

	got, err := m.Validate(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestManager_Expired(t *testing.T) {
	m := NewManager("test-secret", time.Hour, nil)

	issued := time.Now()
	m.now = func() time.Time { return issued }

	tok, err := m.Issue(uuid.New())
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = m.Validate(context.Background(), tok)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestManager_WrongSecret(t *testing.T) {
	m := NewManager("test-secret", time.Hour, nil)
	forger := NewManager("other-secret", time.Hour, nil)

	tok, err := forger.Issue(uuid.New())
	require.NoError(t, err)

	_, err = m.Validate(context.Background(), tok)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

// A confirmation token signed with the same server secret must not be
// accepted as a login session.
func TestManager_RejectsConfirmationToken(t *testing.T) {
	m := NewManager("test-secret", time.Hour, nil)
	issuer := token.NewIssuer("test-secret", time.Hour)

	confirmTok, err := issuer.Issue("e215720@cs.u-ryukyu.ac.jp")
	require.NoError(t, err)

	_, err = m.Validate(context.Background(), confirmTok)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestManager_RevokeWithoutRedis(t *testing.T) {
	m := NewManager("test-secret", time.Hour, nil)

	tok, err := m.Issue(uuid.New())
	require.NoError(t, err)

	// Best-effort: no revocation list configured, no error either
	require.NoError(t, m.Revoke(context.Background(), tok))

	// Without a revocation list the session stays valid until expiry
	_, err = m.Validate(context.Background(), tok)
	assert.NoError(t, err)
}
