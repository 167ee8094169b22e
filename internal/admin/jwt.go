package admin

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Roma7-7-7/lawhelp-bot/internal/config"
)

type JWTProcessor struct {
	issuer    string
	expiresIn time.Duration

	secret []byte
	now    func() time.Time
}

func NewJWTProcessor(conf config.Session) *JWTProcessor {
	return &JWTProcessor{
		issuer:    conf.Issuer,
		expiresIn: conf.ExpiresIn,

		secret: []byte(conf.Secret),
		now:    time.Now,
	}
}

// ToSessionToken issues a signed token whose subject is the username.
func (p *JWTProcessor) ToSessionToken(username string) (string, error) {
	now := p.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    p.issuer,
		Subject:   username,
		ExpiresAt: jwt.NewNumericDate(now.Add(p.expiresIn)),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        uuid.New().String(),
	})

	signedString, err := token.SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signedString, nil
}

// ParseSessionToken verifies the signature, expiry and issuer and returns
// the username.
func (p *JWTProcessor) ParseSessionToken(token string) (string, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(p.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	if !parsed.Valid {
		return "", errors.New("invalid token")
	}

	if claims.Subject == "" {
		return "", errors.New("empty subject")
	}
	return claims.Subject, nil
}
