package schedule

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRoster(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Roster
		wantErr bool
	}{
		{
			name:  "full roster",
			input: "resident: 于友达\nattending: 都吉香\nchief: 车永生\n",
			want:  testRoster,
		},
		{
			name:  "partial roster",
			input: "chief: 车永生\n",
			want:  Roster{Chief: "车永生"},
		},
		{
			name:  "empty document",
			input: "",
			want:  Roster{},
		},
		{
			name:    "unknown role",
			input:   "residnet: 于友达\n",
			wantErr: true,
		},
		{
			name:    "not a mapping",
			input:   "- a\n- b\n",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := ReadRoster(strings.NewReader(tc.input))
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidRoster)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLoadRosterFile(t *testing.T) {
	t.Parallel()

	t.Run("empty path", func(t *testing.T) {
		t.Parallel()
		got, err := LoadRosterFile("")
		require.NoError(t, err)
		assert.True(t, got.IsZero())
	})

	t.Run("reads file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "roster.yaml")
		require.NoError(t, os.WriteFile(path, []byte("resident: 于友达\nattending: 都吉香\nchief: 车永生\n"), 0o600))

		got, err := LoadRosterFile(path)
		require.NoError(t, err)
		assert.Equal(t, testRoster, got)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := LoadRosterFile(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
