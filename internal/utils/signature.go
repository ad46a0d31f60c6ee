package utils

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// SignatureVerifier checks payment gateway notification signatures.
// The digest is hex(sha512(orderID + statusCode + grossAmount + serverKey)) over the literal wire values.
type SignatureVerifier struct {
	serverKey string
}

// NewSignatureVerifier creates a verifier for the given gateway server key.
func NewSignatureVerifier(serverKey string) *SignatureVerifier {
	return &SignatureVerifier{serverKey: serverKey}
}

// Compute returns the expected signature. Inputs are not trimmed or re-formatted.
func (v *SignatureVerifier) Compute(orderID, statusCode, grossAmount string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + v.serverKey))
	return hex.EncodeToString(sum[:])
}

// Verify reports whether signature matches the digest of the given fields.
// A verifier without a server key accepts nothing.
func (v *SignatureVerifier) Verify(orderID, statusCode, grossAmount, signature string) bool {
	if v.serverKey == "" || signature == "" {
		return false
	}
	expected := v.Compute(orderID, statusCode, grossAmount)
	// gateways send lowercase hex
	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.ToLower(signature))) == 1
}
