package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtgo "github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Issuer issues the JWT
const Issuer = "card-shoggoths-server"

// Audience is the intended JWT audience
const Audience = "card-shoggoths"

// Claims are the claims of a session token
type Claims struct {
	Name string `json:"name"`
	jwtgo.StandardClaims
}

// Session is the session a valid token grants access to
type Session struct {
	ID   string
	Name string
}

// Signer signs and validates session tokens with HS256
type Signer struct {
	secret []byte
	ttl    time.Duration
}

// NewSigner returns a new signer
// A ttl of zero issues tokens that never expire.
func NewSigner(secret []byte, ttl time.Duration) (*Signer, error) {
	if len(secret) < 16 {
		return nil, errors.New("jwt secret must be at least 16 bytes")
	}

	return &Signer{
		secret: secret,
		ttl:    ttl,
	}, nil
}

// Sign will sign a JWT for the session
func (s *Signer) Sign(sessionID, name string) (string, error) {
	now := jwtgo.TimeFunc()
	claims := Claims{
		Name: name,
		StandardClaims: jwtgo.StandardClaims{
			Audience: Audience,
			Id:       uuid.New().String(),
			IssuedAt: now.Unix(),
			Issuer:   Issuer,
			Subject:  sessionID,
		},
	}

	if s.ttl > 0 {
		claims.ExpiresAt = now.Add(s.ttl).Unix()
	}

	return jwtgo.NewWithClaims(jwtgo.SigningMethodHS256, claims).SignedString(s.secret)
}

// ValidSession will validate a signed JWT
func (s *Signer) ValidSession(signedString string) (*Session, error) {
	token, err := jwtgo.ParseWithClaims(signedString, &Claims{}, func(token *jwtgo.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwtgo.SigningMethodHMAC); !ok {
			return nil, errors.New("expected HS256 signing method")
		}

		return s.secret, nil
	})

	if err != nil {
		return nil, err
	}

	if token.Valid {
		if claims, ok := token.Claims.(*Claims); ok {
			if !claims.VerifyAudience(Audience, true) {
				return nil, errors.New("invalid audience")
			}

			if !claims.VerifyIssuer(Issuer, true) {
				return nil, errors.New("invalid issuer")
			}

			if _, err := uuid.Parse(claims.Subject); err != nil {
				return nil, fmt.Errorf("invalid subject: %w", err)
			}

			return &Session{
				ID:   claims.Subject,
				Name: claims.Name,
			}, nil
		}

		return nil, fmt.Errorf("expected *Claims, got %T", token.Claims)
	}

	logrus.Warn("token claims were not valid. did not expect to reach this code")
	return nil, errors.New("claims were not valid")
}
