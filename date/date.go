// Package date implements a calendar date with day granularity, the month
// arithmetic used by deposit terms, and the month keys used by the net-worth
// history.
package date

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const readDateFormat = "2006-1-2" // Permissive read date format (allows single-digit month/day).

// DateFormat is the format used to represent dates as strings in ISO-8601 format.
const DateFormat = "2006-01-02" // write date format

// MonthFormat is the format of a month key, e.g. "2024-06".
const MonthFormat = "2006-01"

const Day = 24 * time.Hour

const secondsPerDay = 24 * 60 * 60

// Date represents a date with day-level granularity.
type Date struct {
	y int        // year
	m time.Month // month
	d int        // day
}

// New returns a normalized Date for the given year, month, and day.
//
// Out of range values are normalized the way time.Date does: New(2024, 2, 31)
// is March 2nd.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Of returns the calendar day of t, in t's own location.
func Of(t time.Time) Date { return New(t.Date()) }

// Today returns the current date.
func Today() Date { return Of(time.Now()) }

// time returns a time.Time that is a canonical representation of that day (at midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Time returns the midnight UTC instant of d.
func (d Date) Time() time.Time { return d.time() }

func (d Date) Year() int              { return d.y }
func (d Date) Month() time.Month      { return d.m }
func (d Date) Day() int               { return d.d }
func (d Date) Weekday() time.Weekday  { return d.time().Weekday() }
func (d Date) IsZero() bool           { return d == Date{} }
func (d Date) Before(x Date) bool     { return d.time().Before(x.time()) }
func (d Date) After(x Date) bool      { return d.time().After(x.time()) }
func (d Date) Format(f string) string { return d.time().Format(f) }
func (d Date) String() string         { return d.time().Format(DateFormat) }
func (d Date) MonthKey() string       { return d.time().Format(MonthFormat) }
func (d Date) Add(days int) Date      { return New(d.y, d.m, d.d+days) }
func (d Date) AddMonths(n int) Date   { return New(d.y, d.m+time.Month(n), d.d) }
func (d Date) IsToday() bool          { return d == Today() }
func (d Date) StartOfMonth() Date     { return New(d.y, d.m, 1) }
func (d Date) EndOfMonth() Date       { return New(d.y, d.m+1, 0) }
func (d Date) SameMonth(x Date) bool  { return d.y == x.y && d.m == x.m }
func (d Date) Equal(x Date) bool      { return d == x }

// Sub returns the number of calendar days from x to d. It is negative when d
// is before x. Both days are taken at midnight, so the result is exact.
func (d Date) Sub(x Date) int {
	return int((d.time().Unix() - x.time().Unix()) / secondsPerDay)
}

var relativeDateRE = regexp.MustCompile(`^([+-])(\d+)([dwmy])$`)

// Parse parses a Date from a string.
//
// It is lenient and accepts "2025-7-1", full ISO timestamps such as
// "2024-09-18T10:00:00.000Z" (the time of day is dropped), and relative dates
// like "+90d", "-1w", "+3m" or "+1y" counted from today.
func Parse(str string) (Date, error) {
	str = strings.TrimSpace(str)

	if match := relativeDateRE.FindStringSubmatch(str); match != nil {
		num, err := strconv.Atoi(match[2])
		if err != nil {
			return Date{}, fmt.Errorf("invalid number in relative date %q: %w", str, err)
		}
		if match[1] == "-" {
			num = -num
		}
		today := Today()
		switch match[3] {
		case "d":
			return today.Add(num), nil
		case "w":
			return today.Add(num * 7), nil
		case "m":
			return today.AddMonths(num), nil
		case "y":
			return today.AddMonths(num * 12), nil
		}
	}

	on, err := time.Parse(readDateFormat, str)
	if err != nil {
		// legacy files store full timestamps
		on, err = time.Parse(time.RFC3339Nano, str)
	}
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", str, DateFormat, err)
	}
	return Of(on), nil
}

// MustParse is like Parse but panics on error.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// ParseMonth parses a month key ("2024-06") and returns the first day of that month.
func ParseMonth(key string) (Date, error) {
	on, err := time.Parse(MonthFormat, strings.TrimSpace(key))
	if err != nil {
		return Date{}, fmt.Errorf("invalid month %q want format %q: %w", key, MonthFormat, err)
	}
	return Of(on), nil
}

// UnmarshalJSON implements the json specific way to unmarshall a date from a json string.
func (j *Date) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	if str == "" {
		*j = Date{}
		return nil
	}
	// relative dates make no sense in data files.
	if relativeDateRE.MatchString(strings.TrimSpace(str)) {
		return fmt.Errorf("invalid date %q in data file, want format %q", str, DateFormat)
	}
	d, err := Parse(str)
	if err != nil {
		return err
	}
	*j = d
	return nil
}

func (j Date) MarshalJSON() ([]byte, error) {
	str := ""
	if !j.IsZero() {
		str = j.String()
	}
	return json.Marshal(&str)
}

// check that a Date pointer is a valid json marshall/unmarshaller type.
var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)
