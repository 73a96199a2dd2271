package shared

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"log/slog"
	"regexp"
	"time"

	"github.com/rehabdesk/rehabdesk-api/internal/platform/logger"
)

const (
	// RequestIDHeader carries the correlation ID on requests and responses.
	RequestIDHeader = "X-Request-ID"

	// RequestIDLength is the number of random bytes in a generated ID.
	RequestIDLength = 16
)

// acceptedRequestID bounds IDs supplied by clients so they are safe to log.
var acceptedRequestID = regexp.MustCompile(`^[A-Za-z0-9._\-]{1,64}$`)

// WithRequestID stores id in ctx, generating one when id is empty or not an
// acceptable client-supplied value. It returns the ID used.
func WithRequestID(ctx context.Context, id string) (context.Context, string) {
	if !acceptedRequestID.MatchString(id) {
		id = generateRequestID()
	}
	return logger.WithRequestID(ctx, id), id
}

// GetRequestID returns the request ID stored in ctx, or "".
func GetRequestID(ctx context.Context) string {
	return logger.RequestID(ctx)
}

func generateRequestID() string {
	b := make([]byte, RequestIDLength)
	n, err := rand.Read(b)
	if err != nil || n != RequestIDLength {
		slog.Error("failed to generate random request ID",
			slog.Any("error", err),
			slog.Int("bytes_read", n))
		return fallbackRequestID()
	}
	return hex.EncodeToString(b)
}

// fallbackRequestID derives an ID from the clock when crypto/rand fails.
func fallbackRequestID() string {
	b := make([]byte, RequestIDLength)
	now := time.Now()
	binary.BigEndian.PutUint64(b[:8], uint64(now.UnixNano()))
	binary.BigEndian.PutUint32(b[8:12], uint32(now.Nanosecond()))
	binary.BigEndian.PutUint32(b[12:], uint32(now.Unix()))
	return hex.EncodeToString(b)
}
