// Package auth issues and checks the seat tokens that bind a presentation
// client to a running table.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "sojourn"

var (
	ErrInvalidToken = errors.New("auth: invalid seat token")
	ErrEmptySecret  = errors.New("auth: empty signing secret")
)

// SeatClaims identify the table a client may drive.
type SeatClaims struct {
	GameID uuid.UUID `json:"game_id"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 seat tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer creates an Issuer. A zero ttl means tokens last 12 hours.
func NewIssuer(secret []byte, ttl time.Duration) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Issuer{secret: secret, ttl: ttl, now: time.Now}, nil
}

// Issue returns a signed token for gameID.
func (i *Issuer) Issue(gameID uuid.UUID) (string, error) {
	now := i.now()
	claims := SeatClaims{
		GameID: gameID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   gameID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign seat token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token and returns its claims.
func (i *Issuer) Parse(token string) (*SeatClaims, error) {
	claims := &SeatClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.GameID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
