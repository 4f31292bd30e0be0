// Package token issues and verifies the signed, time-limited tokens
// embedded in email confirmation links.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// confirmPurpose pins tokens to email confirmation so a token signed
// with the same secret for another purpose can never confirm an account.
const confirmPurpose = "email-confirm"

var (
	// ErrExpired means the signature was valid but the token is older
	// than the validity window. The user has to request a new one.
	ErrExpired = errors.New("confirmation token expired")
	// ErrInvalid means the signature or format did not check out:
	// the token is corrupted or forged.
	ErrInvalid = errors.New("confirmation token invalid")
)

type confirmClaims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies confirmation tokens with a server secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer creates an Issuer. ttl is the validity window measured from
// issuance time.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue produces a URL-safe signed token proving that email was the
// target of a registration at issuance time.
func (i *Issuer) Issue(email string) (string, error) {
	now := i.now()
	claims := confirmClaims{
		Purpose: confirmPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify checks the signature and validity window of a token and
// returns the email it was issued for. It returns ErrExpired when the
// signature is valid but the window has elapsed, and ErrInvalid for
// everything else.
func (i *Issuer) Verify(tokenStr string) (string, error) {
	claims := &confirmClaims{}

	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return i.now() }))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpired
		}
		return "", ErrInvalid
	}

	if !parsed.Valid || claims.Purpose != confirmPurpose || claims.Subject == "" {
		return "", ErrInvalid
	}

	return claims.Subject, nil
}
