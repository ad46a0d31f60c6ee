package utils

import (
	"crypto/sha512"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignatureVerifier_Compute(t *testing.T) {
	v := NewSignatureVerifier("SB-Mid-server-secret")
	sum := sha512.Sum512([]byte("TXN-1" + "200" + "150000.00" + "SB-Mid-server-secret"))

	assert.Equal(t, hex.EncodeToString(sum[:]), v.Compute("TXN-1", "200", "150000.00"))
	assert.Len(t, v.Compute("", "", ""), 128)
}

func TestSignatureVerifier_Verify(t *testing.T) {
	v := NewSignatureVerifier("SB-Mid-server-secret")
	orderID, statusCode, gross := "TXN-ABCDEFGHIJ-1709287200", "200", "150000.00"
	valid := v.Compute(orderID, statusCode, gross)

	assert.True(t, v.Verify(orderID, statusCode, gross, valid))
	assert.True(t, v.Verify(orderID, statusCode, gross, strings.ToUpper(valid)))

	t.Run("amount is not normalised", func(t *testing.T) {
		assert.False(t, v.Verify(orderID, statusCode, "150000", valid))
		assert.False(t, v.Verify(orderID, statusCode, "150000.0", valid))
	})

	t.Run("any single byte change invalidates", func(t *testing.T) {
		fields := []string{orderID, statusCode, gross}
		for i := range fields {
			for pos := 0; pos < len(fields[i]); pos++ {
				mutated := append([]string(nil), fields...)
				b := []byte(mutated[i])
				b[pos] ^= 0x01
				mutated[i] = string(b)
				assert.False(t, v.Verify(mutated[0], mutated[1], mutated[2], valid), "field %d byte %d", i, pos)
			}
		}
	})

	t.Run("other secret", func(t *testing.T) {
		other := NewSignatureVerifier("another-secret")
		assert.False(t, v.Verify(orderID, statusCode, gross, other.Compute(orderID, statusCode, gross)))
	})

	t.Run("empty inputs", func(t *testing.T) {
		assert.False(t, v.Verify(orderID, statusCode, gross, ""))
		noKey := NewSignatureVerifier("")
		assert.False(t, noKey.Verify(orderID, statusCode, gross, noKey.Compute(orderID, statusCode, gross)))
	})
}
