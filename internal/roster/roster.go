// Package roster defines the people snapshot and hard-constraint inputs the
// planner core consumes.
package roster

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/overlap-planner/internal/availability"
)

// Offsets outside this span are rejected at validation time.
const (
	MinUTCOffset = -12
	MaxUTCOffset = 14
)

// Person is one roster entry as supplied by the caller. Snapshots are value
// types; computations never mutate them.
type Person struct {
	Username      string               `json:"username"`
	TimezoneUnset bool                 `json:"timezoneUnset"`
	UTCOffset     int                  `json:"utcOffset"`
	DST           bool                 `json:"dst"`
	Rules         availability.RuleSet `json:"availableTimes"`
}

// EffectiveOffset returns the person's UTC offset in hours, shifted forward
// one hour when daylight saving is flagged. The second return value is false
// when the timezone is unset, which excludes the person from computation.
func (p Person) EffectiveOffset() (int, bool) {
	if p.TimezoneUnset {
		return 0, false
	}
	offset := p.UTCOffset
	if p.DST {
		offset++
	}
	return offset, true
}

// EverAvailable reports whether the person's rules can yield availability at
// any instant.
func (p Person) EverAvailable() bool {
	return availability.EverAvailable(p.Rules)
}

// Pin is a hard online or offline requirement for one person.
type Pin int

const (
	// PinOnline requires the person to be available.
	PinOnline Pin = iota + 1
	// PinOffline requires the person to be unavailable.
	PinOffline
)

const (
	pinOnlineWire  = "online"
	pinOfflineWire = "offline"
)

// ConstraintMap maps usernames to pins; absent entries are unconstrained.
type ConstraintMap map[string]Pin

// UnmarshalJSON decodes the wire shape, an array of [username, state] pairs.
func (m *ConstraintMap) UnmarshalJSON(data []byte) error {
	var pairs [][2]string
	if err := json.Unmarshal(data, &pairs); err != nil {
		return err
	}

	decoded := make(ConstraintMap, len(pairs))
	for _, pair := range pairs {
		switch pair[1] {
		case pinOnlineWire:
			decoded[pair[0]] = PinOnline
		case pinOfflineWire:
			decoded[pair[0]] = PinOffline
		default:
			return fmt.Errorf("roster: unknown constraint state %q for %q", pair[1], pair[0])
		}
	}

	*m = decoded
	return nil
}

// MarshalJSON encodes the map back into ordered [username, state] pairs.
func (m ConstraintMap) MarshalJSON() ([]byte, error) {
	pairs := make([][2]string, 0, len(m))
	for username, pin := range m {
		state := pinOnlineWire
		if pin == PinOffline {
			state = pinOfflineWire
		}
		pairs = append(pairs, [2]string{username, state})
	}
	// Deterministic output keeps stored snapshots byte-stable.
	for i := 1; i < len(pairs); i++ {
		for j := i; j > 0 && pairs[j][0] < pairs[j-1][0]; j-- {
			pairs[j], pairs[j-1] = pairs[j-1], pairs[j]
		}
	}
	return json.Marshal(pairs)
}

// Snapshot is a stored roster: a named people set plus its constraints.
type Snapshot struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	People      []Person      `json:"people"`
	Constraints ConstraintMap `json:"constraints,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
