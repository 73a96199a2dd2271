package schedule

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidRoster is returned when a roster file cannot be decoded.
var ErrInvalidRoster = errors.New("invalid roster")

// IsZero reports whether no physician is named.
func (r Roster) IsZero() bool {
	return r.Resident == "" && r.Attending == "" && r.Chief == ""
}

// ReadRoster decodes a YAML roster. Unknown keys are rejected so that a
// misspelt role does not silently leave a signature blank.
func ReadRoster(r io.Reader) (Roster, error) {
	var roster Roster
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&roster); err != nil {
		if errors.Is(err, io.EOF) {
			return Roster{}, nil
		}
		return Roster{}, fmt.Errorf("%w: %v", ErrInvalidRoster, err)
	}
	return roster, nil
}

// LoadRosterFile reads the roster at path. An empty path yields the zero
// roster, which renders unsigned records.
func LoadRosterFile(path string) (Roster, error) {
	if path == "" {
		return Roster{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Roster{}, fmt.Errorf("open roster: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ReadRoster(f)
}
