package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"
)

const upperAlphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateSecureRandomString generates a cryptographically secure random string of the specified byte length,
// then hex encodes it. For example, lengthInBytes=32 will result in a 64-character hex string.
func GenerateSecureRandomString(lengthInBytes int) (string, error) {
	if lengthInBytes <= 0 {
		return "", fmt.Errorf("lengthInBytes must be positive")
	}
	b := make([]byte, lengthInBytes)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateUpperAlphanumeric returns n random characters from [A-Z0-9].
func GenerateUpperAlphanumeric(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("length must be positive")
	}
	max := big.NewInt(int64(len(upperAlphanumeric)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random index: %w", err)
		}
		out[i] = upperAlphanumeric[idx.Int64()]
	}
	return string(out), nil
}

// GenerateTransactionID returns an ID of the form TXN-<10 chars>-<unix seconds>.
func GenerateTransactionID(now time.Time) (string, error) {
	random, err := GenerateUpperAlphanumeric(10)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("TXN-%s-%d", random, now.Unix()), nil
}

// GenerateReference returns a human facing reference of the form REF-<8 chars>.
func GenerateReference() (string, error) {
	random, err := GenerateUpperAlphanumeric(8)
	if err != nil {
		return "", err
	}
	return "REF-" + random, nil
}
