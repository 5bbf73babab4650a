package holiday

import (
	"context"
	"errors"
	"sort"
	"strings"
)

// Type classifies a holiday record
type Type int

const (
	// TypeRegular is a public/national holiday
	TypeRegular Type = iota + 1
	// TypeWork is an organization-specific workday holiday
	TypeWork
)

// String returns the wire name of the type
func (t Type) String() string {
	switch t {
	case TypeWork:
		return "work"
	default:
		return "regular"
	}
}

// MarshalJSON emits the type as its wire name
func (t Type) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON accepts the wire names; anything else is regular
func (t *Type) UnmarshalJSON(data []byte) error {
	if string(data) == `"work"` {
		*t = TypeWork
	} else {
		*t = TypeRegular
	}
	return nil
}

// Holiday is a canonical holiday record. Date is always yyyy-MM-dd with
// no time component; (Date, Name) pairs are unique after Normalize.
type Holiday struct {
	Date string `json:"date"`
	Name string `json:"name"`
	Type Type   `json:"type"`
}

// DefaultName is substituted when a source record carries no usable label
const DefaultName = "Imported holiday"

// Error kinds. Every failure degrades to "no/old holiday annotations
// shown"; none is fatal and none is retried automatically.
var (
	// ErrDataUnavailable means the selected region has no reliable source
	ErrDataUnavailable = errors.New("holiday data unavailable for this region")
	// ErrFetchFailed means a remote fetch or decode failed transiently
	ErrFetchFailed = errors.New("could not load holidays")
	// ErrImportFailed means an imported calendar file could not be parsed
	ErrImportFailed = errors.New("could not import calendar file")
)

// Source produces canonical holiday records for a country and year.
// Implementations: remote public-holiday API, ICS file import, computed
// static calendar.
type Source interface {
	// Name identifies the source in logs and config
	Name() string

	// Holidays returns the canonical records for the given selection
	Holidays(ctx context.Context, country string, year int) ([]Holiday, error)
}

// Normalize canonicalizes a raw holiday list: names are trimmed (empty
// names become DefaultName), duplicates by (date, trimmed name) are
// dropped keeping the first occurrence, and the result is sorted by date
// then name. Normalizing an already-normalized list is a no-op.
func Normalize(raw []Holiday) []Holiday {
	seen := make(map[string]bool, len(raw))
	out := make([]Holiday, 0, len(raw))

	for _, h := range raw {
		name := strings.TrimSpace(h.Name)
		if name == "" {
			name = DefaultName
		}

		key := h.Date + "\x00" + name
		if seen[key] {
			continue
		}
		seen[key] = true

		out = append(out, Holiday{Date: h.Date, Name: name, Type: h.Type})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Name < out[j].Name
	})

	return out
}

// OnDate returns the holidays matching the given yyyy-MM-dd date,
// preserving set order.
func OnDate(set []Holiday, date string) []Holiday {
	var out []Holiday
	for _, h := range set {
		if h.Date == date {
			out = append(out, h)
		}
	}
	return out
}
