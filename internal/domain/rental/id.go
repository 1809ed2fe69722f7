package rental

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used by every date filter and field.
const DateLayout = "2006-01-02"

// Day formats t as a calendar date in its own location.
func Day(t time.Time) string {
	return t.Format(DateLayout)
}

// ID is an opaque record identifier. The API sends numeric ids; quoted ids
// are accepted as well so callers never depend on the wire type.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("rental: invalid id %s: %w", b, err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }
