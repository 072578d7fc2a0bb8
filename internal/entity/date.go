package entity

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical wire and storage layout for calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar date carried as its textual form. Values submitted by
// clients are stored as given; values read back as time.Time from drivers
// that parse DATE columns are normalised to DateLayout.
type Date string

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	return string(d), nil
}

// Scan implements sql.Scanner.
func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = ""
	case time.Time:
		*d = Date(v.Format(DateLayout))
	case []byte:
		*d = Date(normaliseDateText(string(v)))
	case string:
		*d = Date(normaliseDateText(v))
	default:
		return fmt.Errorf("unsupported type for Date: %T", value)
	}
	return nil
}

// Time parses the date. ok is false when the stored text is not a date.
func (d Date) Time() (t time.Time, ok bool) {
	text := strings.TrimSpace(string(d))
	if text == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{DateLayout, time.RFC3339, "2006-01-02 15:04:05"} {
		if parsed, err := time.Parse(layout, text); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func (d Date) String() string {
	return string(d)
}

// normaliseDateText trims a time-of-day suffix some drivers append to DATE
// values ("2024-03-01T00:00:00Z", "2024-03-01 00:00:00").
func normaliseDateText(s string) string {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) > len(DateLayout) {
		if _, err := time.Parse(DateLayout, trimmed[:len(DateLayout)]); err == nil {
			switch trimmed[len(DateLayout)] {
			case 'T', ' ':
				return trimmed[:len(DateLayout)]
			}
		}
	}
	return trimmed
}
