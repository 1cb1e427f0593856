// Marquee - Streaming Catalog Page Composition Engine
// Copyright 2026 Marquee Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/marqueehq/marquee

package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// BasicAuthManager validates HTTP Basic Authentication credentials against
// a single configured admin account. The password is hashed with bcrypt at
// startup so the plaintext never lingers in memory longer than necessary.
type BasicAuthManager struct {
	username     string
	passwordHash []byte
}

// NewBasicAuthManager creates a basic auth manager, hashing the configured
// password with bcrypt cost 12.
func NewBasicAuthManager(username, password string) (*BasicAuthManager, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required for basic auth")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return &BasicAuthManager{
		username:     username,
		passwordHash: hash,
	}, nil
}

// ValidateCredentials parses an Authorization header and checks the
// credentials. The username comparison is constant-time and the password
// check goes through bcrypt, so timing does not leak which part failed.
func (m *BasicAuthManager) ValidateCredentials(authHeader string) error {
	if authHeader == "" {
		return fmt.Errorf("missing authorization header")
	}

	const prefix = "Basic "
	if !strings.HasPrefix(authHeader, prefix) {
		return fmt.Errorf("invalid authorization scheme")
	}

	decoded, err := base64.StdEncoding.DecodeString(authHeader[len(prefix):])
	if err != nil {
		return fmt.Errorf("invalid base64 encoding: %w", err)
	}

	parts := strings.SplitN(string(decoded), ":", 2)
	if len(parts) != 2 {
		return fmt.Errorf("malformed credentials")
	}

	return m.VerifyPassword(parts[0], parts[1])
}

// VerifyPassword checks a username/password pair against the configured
// admin account.
func (m *BasicAuthManager) VerifyPassword(username, password string) error {
	usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(m.username)) == 1
	passwordErr := bcrypt.CompareHashAndPassword(m.passwordHash, []byte(password))

	if !usernameMatch || passwordErr != nil {
		return fmt.Errorf("invalid credentials")
	}

	return nil
}

// GetWWWAuthenticateHeader returns the challenge header for 401 responses.
func (m *BasicAuthManager) GetWWWAuthenticateHeader() string {
	return `Basic realm="Marquee", charset="UTF-8"`
}
