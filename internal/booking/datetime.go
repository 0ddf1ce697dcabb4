package booking

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// The normalizer maps free-text date and time phrases onto a concrete
// calendar day and a 24-hour clock time. Input that resolves to a past
// instant is clamped forward, never rejected: past dates become today, and
// a past time on today's date becomes the next whole hour.

const (
	// DateLayout is the wire format for appointment dates.
	DateLayout = "2006-01-02"
	// TimeLayout is the wire format for appointment times.
	TimeLayout = "15:04"

	defaultTime = "09:00"
)

// timeOfDayWords is the fixed vocabulary of time-of-day phrases.
var timeOfDayWords = map[string]string{
	"morning":   "09:00",
	"noon":      "12:00",
	"afternoon": "14:00",
	"evening":   "18:00",
	"night":     "20:00",
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// fallbackDateLayouts are tried in order when no relative phrase matches.
var fallbackDateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"Jan 2 2006",
	"January 2 2006",
	"January 2, 2006",
	"2 January 2006",
}

// yearlessDateLayouts are completed with the current year before parsing.
var yearlessDateLayouts = []string{
	"Jan 2",
	"January 2",
	"2 January",
}

var clockRE = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
var meridiemRE = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*(am|pm|a\.m\.|p\.m\.)$`)

// ResolveDate maps a free-text phrase to a calendar day. Unrecognized input
// resolves to today, and any day before today is clamped to today.
func ResolveDate(phrase string, now time.Time) time.Time {
	today := truncateToDay(now)
	resolved := resolveDatePhrase(strings.ToLower(strings.TrimSpace(phrase)), now)
	if resolved.Before(today) {
		return today
	}
	return resolved
}

func resolveDatePhrase(phrase string, now time.Time) time.Time {
	today := truncateToDay(now)

	switch phrase {
	case "", "today", "now", "asap":
		return today
	case "tomorrow":
		return today.AddDate(0, 0, 1)
	case "day after tomorrow", "the day after tomorrow":
		return today.AddDate(0, 0, 2)
	}

	// Weekday lookahead: a bare weekday means its next occurrence starting
	// today; "next <weekday>" skips today.
	name := phrase
	strict := false
	if rest, ok := strings.CutPrefix(phrase, "next "); ok {
		name = rest
		strict = true
	}
	if wd, ok := weekdayNames[name]; ok {
		offset := (int(wd) - int(today.Weekday()) + 7) % 7
		if offset == 0 && strict {
			offset = 7
		}
		return today.AddDate(0, 0, offset)
	}

	for _, layout := range fallbackDateLayouts {
		if t, err := time.ParseInLocation(layout, titleCaseMonth(phrase), now.Location()); err == nil {
			return truncateToDay(t)
		}
	}
	for _, layout := range yearlessDateLayouts {
		if t, err := time.ParseInLocation(layout+" 2006", titleCaseMonth(phrase)+" "+strconv.Itoa(now.Year()), now.Location()); err == nil {
			return truncateToDay(t)
		}
	}

	return today
}

// ResolveTime maps a free-text phrase to an HH:MM clock time. Unrecognized
// input resolves to 09:00. The past-instant clamp is applied separately by
// Normalize, not here.
func ResolveTime(phrase string, now time.Time) string {
	phrase = strings.ToLower(strings.TrimSpace(phrase))

	if t, ok := timeOfDayWords[phrase]; ok {
		return t
	}
	for word, t := range timeOfDayWords {
		if strings.Contains(phrase, word) {
			return t
		}
	}

	if m := clockRE.FindStringSubmatch(phrase); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour <= 23 && minute <= 59 {
			return fmt.Sprintf("%02d:%02d", hour, minute)
		}
	}

	if m := meridiemRE.FindStringSubmatch(phrase); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		pm := strings.HasPrefix(m[3], "p")
		if hour >= 1 && hour <= 12 && minute <= 59 {
			if pm && hour != 12 {
				hour += 12
			}
			if !pm && hour == 12 {
				hour = 0
			}
			return fmt.Sprintf("%02d:%02d", hour, minute)
		}
	}

	return defaultTime
}

// Normalize resolves both phrases and applies the past-instant clamp,
// returning the final date and time strings.
func Normalize(datePhrase, timePhrase string, now time.Time) (string, string) {
	day := ResolveDate(datePhrase, now)
	clock := ResolveTime(timePhrase, now)
	day, clock = clampPastInstant(day, clock, now)
	return day.Format(DateLayout), clock
}

// clampPastInstant advances a same-day time that has already passed to the
// next whole hour. Next-whole-hour past 23:00 rolls to 00:00 tomorrow.
func clampPastInstant(day time.Time, clock string, now time.Time) (time.Time, string) {
	if !day.Equal(truncateToDay(now)) {
		return day, clock
	}
	hour, minute := splitClock(clock)
	if hour*60+minute > now.Hour()*60+now.Minute() {
		return day, clock
	}
	next := now.Hour() + 1
	if next >= 24 {
		return day.AddDate(0, 0, 1), "00:00"
	}
	return day, fmt.Sprintf("%02d:00", next)
}

func splitClock(clock string) (int, int) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, 0
	}
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	return h, m
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// titleCaseMonth uppercases the first letter of each word so month names
// match Go's reference layouts.
func titleCaseMonth(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if len(w) > 0 && w[0] >= 'a' && w[0] <= 'z' {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
