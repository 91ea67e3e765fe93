package message

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	isoDateRe = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	dmyDateRe = regexp.MustCompile(`^(\d{1,2})([.\-])(\d{1,2})([.\-])(\d{2,4})$`)
)

// relativeDays maps relative date keywords to a day offset from "now".
var relativeDays = map[string]int{
	"вчера":     -1,
	"yesterday": -1,
	"позавчера": -2,
}

// ResolveDate turns an explicit or relative date token into a concrete
// timestamp (midnight, now's location). Supported forms: YYYY-MM-DD,
// D.M.Y and D-M-Y with a 2- or 4-digit year (2-digit years mean 2000+YY),
// and the relative keywords. The second return value is false when the
// token is not a resolvable date; callers treat that as "not a date" and
// keep the token in the label.
func ResolveDate(token string, now time.Time) (time.Time, bool) {
	if offset, ok := relativeDays[strings.ToLower(token)]; ok {
		d := now.AddDate(0, 0, offset)
		return midnight(d.Year(), int(d.Month()), d.Day(), now.Location()), true
	}

	if m := isoDateRe.FindStringSubmatch(token); m != nil {
		return makeDate(atoi(m[1]), atoi(m[2]), atoi(m[3]), now.Location())
	}

	if m := dmyDateRe.FindStringSubmatch(token); m != nil {
		// Mixed separators ("1.12-20") are not a date.
		if m[2] != m[4] {
			return time.Time{}, false
		}
		year := atoi(m[5])
		if len(m[5]) == 2 {
			year += 2000
		} else if len(m[5]) != 4 {
			return time.Time{}, false
		}
		return makeDate(year, atoi(m[3]), atoi(m[1]), now.Location())
	}

	return time.Time{}, false
}

// makeDate validates the components by round-tripping through time.Date,
// which silently normalizes out-of-range values.
func makeDate(year, month, day int, loc *time.Location) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := midnight(year, month, day, loc)
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

func midnight(year, month, day int, loc *time.Location) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
