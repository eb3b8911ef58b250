package internal

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the format accepted by --from and --to
const DateLayout = "2006-01-02"

// ParseDate parses a yyyy-MM-dd date (leading zeros optional) as local midnight.
// An empty string yields the zero time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation("2006-1-2", s, time.Local)
	if err != nil {
		return time.Time{}, &ParseError{Source: "date", Key: s, Err: fmt.Errorf("use yyyy-MM-dd (example: 2023-01-31)")}
	}
	return t, nil
}

// ParseDateRange parses optional from/to bounds and checks their order
func ParseDateRange(from, to string) (time.Time, time.Time, error) {
	start, err := ParseDate(from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := ParseDate(to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return time.Time{}, time.Time{}, &ParseError{Source: "date", Key: from + ".." + to, Err: fmt.Errorf("end date is before start date")}
	}
	return start, end, nil
}

var months = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may": time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sept": time.September, "sep": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

const monthPattern = `(january|february|march|april|may|june|july|august|september|october|november|december|sept|jan|feb|mar|apr|jun|jul|aug|sep|oct|nov|dec)`

var (
	monthDayRe   = regexp.MustCompile(`\b` + monthPattern + `\.?\s+(?:the\s+)?(\d{1,2})(?:st|nd|rd|th)?\b`)
	dayMonthRe   = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?` + monthPattern + `\b`)
	numericRe    = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})\b`)
	ordinalDayRe = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)\b`)
)

// ExtractDateFromQuestion finds a calendar day mentioned in a question such as
// "May 26th", "26 May", "26/05", "05/26" or "the 26th". The year is taken from now,
// and a bare ordinal uses the current month. Ambiguous numeric dates are read as MM/DD.
func ExtractDateFromQuestion(question string, now time.Time) (time.Time, bool) {
	q := strings.ToLower(question)
	year := now.Year()
	loc := now.Location()

	if m := monthDayRe.FindStringSubmatch(q); m != nil {
		day, _ := strconv.Atoi(m[2])
		return makeDate(year, months[m[1]], day, loc)
	}
	if m := dayMonthRe.FindStringSubmatch(q); m != nil {
		day, _ := strconv.Atoi(m[1])
		return makeDate(year, months[m[2]], day, loc)
	}
	if m := numericRe.FindStringSubmatch(q); m != nil {
		first, _ := strconv.Atoi(m[1])
		second, _ := strconv.Atoi(m[2])
		if first > 12 {
			return makeDate(year, time.Month(second), first, loc)
		}
		if t, ok := makeDate(year, time.Month(first), second, loc); ok {
			return t, true
		}
		return makeDate(year, time.Month(second), first, loc)
	}
	if m := ordinalDayRe.FindStringSubmatch(q); m != nil {
		day, _ := strconv.Atoi(m[1])
		return makeDate(year, now.Month(), day, loc)
	}
	return time.Time{}, false
}

// makeDate rejects days that do not exist instead of normalizing them
func makeDate(year int, month time.Month, day int, loc *time.Location) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, loc)
	if t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}
