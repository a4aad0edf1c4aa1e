// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package session holds the admin bearer token for the lifetime of the
// process and exposes it through the adapter's TokenProvider contract.
//
// Token issuance (the Cognito login flow) happens outside this application;
// the token arrives via configuration and is only stored, handed out, and
// inspected here.
package session

import (
	"errors"
	"strings"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoUsernameClaim is returned by [TokenSource.Username] when the token
// carries no recognisable username claim.
var ErrNoUsernameClaim = errors.New("token has no username claim")

// TokenSource stores the bearer token of the current admin session. Safe for
// concurrent use.
type TokenSource struct {
	mu    sync.RWMutex
	token string
}

// New creates a TokenSource holding token (whitespace-trimmed). An empty
// token is allowed; the adapter will then fail authenticated calls before
// any network activity.
func New(token string) *TokenSource {
	s := &TokenSource{}
	s.SetToken(token)
	return s
}

// SetToken replaces the stored bearer token. Used when the operator renews
// an expired session.
func (s *TokenSource) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = strings.TrimSpace(token)
}

// BearerToken implements the adapter's TokenProvider contract. It returns
// the stored token, or an empty string when no session is available.
func (s *TokenSource) BearerToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Username extracts the admin username from the stored token without
// verifying the signature — the server is the authority on token validity,
// the claim is used locally for logging and attribution only.
//
// It tries the Cognito "cognito:username" claim first and falls back to the
// standard "sub" subject. Returns [ErrNoUsernameClaim] if neither is present
// or the token cannot be parsed.
func (s *TokenSource) Username() (string, error) {
	token := s.BearerToken()
	if token == "" {
		return "", ErrNoUsernameClaim
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return "", err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrNoUsernameClaim
	}

	if name, ok := claims["cognito:username"].(string); ok && name != "" {
		return name, nil
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrNoUsernameClaim
	}
	return sub, nil
}
