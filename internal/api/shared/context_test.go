package shared

import (
	"context"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRequestID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		supplied string
		keep     bool
	}{
		{name: "client id kept", supplied: "ward-3.req_0042", keep: true},
		{name: "empty generates", supplied: ""},
		{name: "spaces rejected", supplied: "bad id"},
		{name: "too long rejected", supplied: strings.Repeat("a", 65)},
		{name: "newline rejected", supplied: "abc\nlevel=error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx, id := WithRequestID(context.Background(), tt.supplied)
			assert.Equal(t, id, GetRequestID(ctx))
			if tt.keep {
				assert.Equal(t, tt.supplied, id)
				return
			}
			assert.Len(t, id, 2*RequestIDLength)
			_, err := hex.DecodeString(id)
			require.NoError(t, err)
		})
	}
}

func TestGetRequestIDMissing(t *testing.T) {
	t.Parallel()
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestGeneratedRequestIDsAreUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool, 500)
	for i := 0; i < 500; i++ {
		id := generateRequestID()
		require.False(t, seen[id], "duplicate request ID %s", id)
		seen[id] = true
	}
	assert.Len(t, fallbackRequestID(), 2*RequestIDLength)
}
