package pagination

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const cursorVersion = "v1"

// ErrInvalidCursor is returned for tokens that were not produced by Cursor.Encode.
var ErrInvalidCursor = errors.New("invalid pagination token")

// Cursor is the keyset position after the last row of a page, ordered by (created_at, id) descending.
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

// Encode returns an opaque URL safe token. Timestamps keep nanosecond precision.
func (c Cursor) Encode() string {
	raw := cursorVersion + ":" + strconv.FormatInt(c.CreatedAt.UnixNano(), 10) + ":" + c.ID
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// ParseCursor decodes a token produced by Encode. Errors wrap ErrInvalidCursor.
func ParseCursor(token string) (Cursor, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: not base64", ErrInvalidCursor)
	}
	parts := strings.SplitN(string(decoded), ":", 3)
	if len(parts) != 3 || parts[0] != cursorVersion {
		return Cursor{}, fmt.Errorf("%w: unknown format", ErrInvalidCursor)
	}
	nanos, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: bad timestamp", ErrInvalidCursor)
	}
	if parts[2] == "" {
		return Cursor{}, fmt.Errorf("%w: missing id", ErrInvalidCursor)
	}
	return Cursor{CreatedAt: time.Unix(0, nanos).UTC(), ID: parts[2]}, nil
}
