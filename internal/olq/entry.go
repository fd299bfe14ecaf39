package olq

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedEntryType is returned for entry types outside the closed set.
var ErrUnsupportedEntryType = errors.New("unsupported entry type")

// EntryType is the candidate's application category.
type EntryType int

const (
	NDA EntryType = iota + 1
	OTA
	Graduate
)

var maxLimitations = map[EntryType]int{
	NDA:      4,
	OTA:      7,
	Graduate: 7,
}

var entryNames = map[EntryType]string{
	NDA:      "NDA",
	OTA:      "OTA",
	Graduate: "GRADUATE",
}

// AllEntryTypes returns the supported entry types, strictest first.
func AllEntryTypes() []EntryType {
	return []EntryType{NDA, OTA, Graduate}
}

func (e EntryType) String() string {
	if name, ok := entryNames[e]; ok {
		return name
	}
	return fmt.Sprintf("EntryType(%d)", int(e))
}

// MaxLimitations is the number of limitations the entry type tolerates before
// automatic rejection.
func (e EntryType) MaxLimitations() (int, error) {
	limit, ok := maxLimitations[e]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedEntryType, e)
	}
	return limit, nil
}

// ParseEntryType resolves a case-insensitive entry type name.
func ParseEntryType(s string) (EntryType, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for e, n := range entryNames {
		if n == name {
			return e, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedEntryType, s)
}

func (e EntryType) MarshalText() ([]byte, error) {
	if _, ok := entryNames[e]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedEntryType, int(e))
	}
	return []byte(e.String()), nil
}

func (e *EntryType) UnmarshalText(b []byte) error {
	parsed, err := ParseEntryType(string(b))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
