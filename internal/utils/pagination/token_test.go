package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor_RoundTrip(t *testing.T) {
	c := Cursor{CreatedAt: time.Date(2024, 5, 15, 14, 30, 45, 123456789, time.UTC), ID: "TXN-ABCDEFGHIJ-1715783445"}

	token := c.Encode()
	assert.NotContains(t, token, "=")

	decoded, err := ParseCursor(token)
	require.NoError(t, err)
	assert.True(t, c.CreatedAt.Equal(decoded.CreatedAt))
	assert.Equal(t, c.ID, decoded.ID)

	// ids containing the separator survive
	decoded, err = ParseCursor(Cursor{CreatedAt: c.CreatedAt, ID: "odd:id"}.Encode())
	require.NoError(t, err)
	assert.Equal(t, "odd:id", decoded.ID)
}

func TestParseCursor_Invalid(t *testing.T) {
	enc := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }
	for name, token := range map[string]string{
		"not base64":    "this is not base64!",
		"wrong version": enc("v0:1715783445:TXN-1"),
		"bad timestamp": enc("v1:yesterday:TXN-1"),
		"missing id":    enc("v1:1715783445:"),
		"too short":     enc("v1:1715783445"),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCursor(token)
			assert.ErrorIs(t, err, ErrInvalidCursor)
		})
	}
}
