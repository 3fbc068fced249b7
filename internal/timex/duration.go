// Package timex extends time.Duration parsing with a day unit so settings
// such as "7d" can be written the way operators expect.
package timex

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Day is 24 hours; calendar irregularities are ignored.
const Day = 24 * time.Hour

// Duration wraps time.Duration for JSON and environment decoding.
//
// Accepted forms: Go duration strings ("90m", "1h30m"), a whole or fractional
// number of days ("7d", "1.5d"), and, in JSON only, integer nanoseconds.
type Duration struct {
	time.Duration
}

// ParseDuration parses s according to the rules documented on Duration.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.ParseFloat(days, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		return time.Duration(n * float64(Day)), nil
	}
	return time.ParseDuration(s)
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		return d.UnmarshalText([]byte(value))
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}
