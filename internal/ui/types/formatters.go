package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// the API sends creation times without a zone offset
const localDateTimeLayout = "2006-01-02T15:04:05.999999999"

// Timestamp is a creation time sent by the API.
// Both RFC3339 values and zone-less local date-times are accepted (the latter are read as UTC).
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}

	if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t.Time = parsed
		return nil
	}

	parsed, err := time.Parse(localDateTimeLayout, s)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// FormatDate converts a timestamp to the "2 January 2006" form used on the site
func FormatDate(t Timestamp) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2 January 2006")
}

// IndustryLabel returns the industry tag in title case for display (e.g. "automotive parts" -> "Automotive Parts").
// A Caser is stateful so one is created per call.
func IndustryLabel(industry string) string {
	return cases.Title(language.English).String(strings.TrimSpace(industry))
}

// Deref returns the value of an optional string or "" when it is absent
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
