package wsf

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseWSDOTDate parses the upstream's date wrapper, a literal of the form
// "/Date(1672531200000-0800)/". The embedded value is epoch milliseconds and
// is the only authoritative part; the trailing four-digit offset, when
// present, is ignored. Returns nil for empty or null-ish input.
func ParseWSDOTDate(raw string) (*time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" || s == "null" {
		return nil, nil
	}

	open := strings.Index(s, "(")
	close := strings.LastIndex(s, ")")
	if open < 0 || close < 0 || close <= open+1 {
		return nil, fmt.Errorf("malformed date %q", raw)
	}
	body := s[open+1 : close]

	// Strip an optional signed four-digit timezone suffix. The leading
	// character may itself be a minus sign for pre-epoch values, so only
	// signs after the first digit terminate the millisecond run.
	end := len(body)
	for i := 1; i < len(body); i++ {
		if body[i] == '+' || body[i] == '-' {
			end = i
			break
		}
	}

	millis, err := strconv.ParseInt(body[:end], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed date %q: %w", raw, err)
	}

	t := time.UnixMilli(millis).UTC()
	return &t, nil
}
