package dto

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar date encoded as "yyyy-MM-dd" in JSON.
type Date time.Time

// UnmarshalJSON parses a quoted yyyy-MM-dd string.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected %s", s, DateLayout)
	}
	*d = Date(t)
	return nil
}

// MarshalJSON renders the date as a quoted yyyy-MM-dd string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(d).Format(DateLayout) + `"`), nil
}

// Time converts a possibly nil date into a time pointer.
func (d *Date) Time() *time.Time {
	if d == nil {
		return nil
	}
	t := time.Time(*d)
	return &t
}

// DateOf converts a possibly nil time pointer into a date pointer.
func DateOf(t *time.Time) *Date {
	if t == nil {
		return nil
	}
	d := Date(*t)
	return &d
}
