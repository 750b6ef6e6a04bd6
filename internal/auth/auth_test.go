package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	iss, err := NewIssuer([]byte("table-secret"), time.Hour)
	require.NoError(t, err)

	gameID := uuid.New()
	token, err := iss.Issue(gameID)
	require.NoError(t, err)

	claims, err := iss.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, gameID, claims.GameID)
	assert.Equal(t, gameID.String(), claims.Subject)
}

func TestParseRejects(t *testing.T) {
	iss, err := NewIssuer([]byte("table-secret"), time.Hour)
	require.NoError(t, err)
	other, err := NewIssuer([]byte("another-secret"), time.Hour)
	require.NoError(t, err)

	foreign, err := other.Issue(uuid.New())
	require.NoError(t, err)
	_, err = iss.Parse(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = iss.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredToken(t *testing.T) {
	iss, err := NewIssuer([]byte("table-secret"), time.Minute)
	require.NoError(t, err)
	start := time.Now()
	iss.now = func() time.Time { return start }
	token, err := iss.Issue(uuid.New())
	require.NoError(t, err)

	iss.now = func() time.Time { return start.Add(2 * time.Minute) }
	_, err = iss.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestEmptySecret(t *testing.T) {
	_, err := NewIssuer(nil, 0)
	assert.ErrorIs(t, err, ErrEmptySecret)
}
