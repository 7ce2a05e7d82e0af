// Package otp issues and verifies the one-time codes participants use to log
// in with their phone number. A code is bound to one phone, expires after a
// TTL and is consumed by its first successful use.
package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const CodeLength = 6

// Store keeps at most one live code per phone number.
type Store interface {
	// Save replaces any code held for phone.
	Save(ctx context.Context, phone, code string, ttl time.Duration) error
	// Consume deletes the stored code and reports true only when it matches.
	// A mismatch leaves the stored code untouched.
	Consume(ctx context.Context, phone, code string) (bool, error)
}

// Sender delivers a code to the phone owner.
type Sender interface {
	Send(ctx context.Context, phone, code string) error
}

// GenerateCode returns a uniformly random zero-padded decimal code.
func GenerateCode() (string, error) {
	max := big.NewInt(1_000_000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", CodeLength, n.Int64()), nil
}
