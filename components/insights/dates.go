package insights

import (
	"strconv"
	"strings"
	"time"
)

// All calendar arithmetic happens in the local time zone. The source data
// carries no zone information, so the engine picks one zone and sticks with
// it; mixing zones would move boundary rows between presets.

var genericDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// ParseSaleDate turns a cell value into a calendar date (midnight, local
// zone). Non-strings fail. Anything after the first space is discarded as a
// time-of-day suffix. Three slash-separated parts are read as day/month/year;
// otherwise generic layouts (ISO and friends) are tried.
func ParseSaleDate(cell any) (time.Time, bool) {
	s, ok := cell.(string)
	if !ok {
		return time.Time{}, false
	}
	if idx := strings.IndexByte(s, ' '); idx >= 0 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if parts := strings.Split(s, "/"); len(parts) == 3 {
		return parseDayMonthYear(parts)
	}
	for _, layout := range genericDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return dayOf(t), true
		}
	}
	return time.Time{}, false
}

func parseDayMonthYear(parts []string) (time.Time, bool) {
	day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return time.Time{}, false
	}
	if year < 100 {
		year += 2000
	}
	// time.Date normalizes overflow (32/13 would roll into the next period),
	// so reject out-of-range components up front.
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	if t.Day() != day || t.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return t, true
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.Local)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// dateLabel is the raw date portion of a cell: the text before the first
// space, untrimmed of meaning. Cluster date sets use it verbatim, without
// parsing, so malformed-but-distinct values stay distinct.
func dateLabel(cell any) (string, bool) {
	s, ok := cell.(string)
	if !ok {
		return "", false
	}
	if idx := strings.IndexByte(s, ' '); idx >= 0 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}
