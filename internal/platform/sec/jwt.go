// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and credential management.
//
// # Architecture
//
// This package isolates security-sensitive code (hashing, credential signing,
// secret-token generation) from the domain logic. It acts as an Infrastructure
// service injected into both services through small interfaces.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// # Verification Errors

var (
	// ErrMalformedToken is returned when the credential cannot be parsed at all.
	ErrMalformedToken = errors.New("sec: malformed token")

	// ErrBadSignature is returned when the signature or signing method does not match.
	ErrBadSignature = errors.New("sec: bad signature")

	// ErrExpired is returned when the credential is past its expiry.
	ErrExpired = errors.New("sec: token expired")
)

// Claims is the payload embedded inside a bearer credential.
//
// It is a snapshot of the account taken at issuance; later profile or role
// changes are only visible once a new credential is issued.
type Claims struct {
	jwt.RegisteredClaims

	AccountID  string `json:"id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Name       string `json:"name"`
	IsVerified bool   `json:"isVerified"`
}

// Subject is the account snapshot a credential is issued for.
type Subject struct {
	ID         string
	Email      string
	Role       UserRole
	Name       string
	IsVerified bool
}

// TokenService signs and verifies bearer credentials with HS256.
//
// The signing secret is passed in at construction; nothing here reads
// process-wide state, so tests can run several services with distinct keys.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption customizes a [TokenService].
type TokenOption func(*TokenService)

// WithClock overrides the time source used for issuance and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(service *TokenService) {
		service.now = now
	}
}

// NewTokenService creates a new TokenService.
func NewTokenService(secret []byte, issuer string, ttl time.Duration, opts ...TokenOption) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, errors.New("sec: signing secret is empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("sec: invalid credential ttl %s", ttl)
	}

	service := &TokenService{
		secret: append([]byte(nil), secret...),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

// Issue builds and signs the claim set for subject. It has no side effects.
func (service *TokenService) Issue(subject Subject) (string, error) {
	issuedAt := service.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.ID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(service.ttl)),
		},
		AccountID:  subject.ID,
		Email:      subject.Email,
		Role:       string(subject.Role),
		Name:       subject.Name,
		IsVerified: subject.IsVerified,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}
	return signed, nil
}

// TTL reports the lifetime of issued credentials.
func (service *TokenService) TTL() time.Duration {
	return service.ttl
}

// Verify checks the signature and expiry of a raw credential.
//
// It never repairs a credential: any mismatch is a rejection classified as
// [ErrMalformedToken], [ErrBadSignature] or [ErrExpired].
func (service *TokenService) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(service.now),
	)

	token, err := parser.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	})
	if err != nil {
		return nil, classify(err)
	}
	if !token.Valid || claims.AccountID == "" {
		return nil, ErrMalformedToken
	}

	return claims, nil
}

// classify maps jwt library errors onto the three rejection reasons.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	default:
		// Missing exp, future iat and friends: still a rejection.
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
}
