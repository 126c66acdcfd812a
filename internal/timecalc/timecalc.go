package timecalc

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the YYYY-MM-DD form Float uses for logged-time dates.
	DateLayout = "2006-01-02"
	// labelLayout renders like "Mon, 05/02/24".
	labelLayout = "Mon, 02/01/06"
)

// WeekRange returns the Monday and Sunday of the ISO week containing t.
func WeekRange(t time.Time) (time.Time, time.Time) {
	// Go's weekday: Sunday=0, Monday=1, …, Saturday=6
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // treat Sunday as 7 (ISO)
	}
	monday := StartOfDay(t.AddDate(0, 0, -(wd - 1)))
	sunday := monday.AddDate(0, 0, 6)
	sunday = time.Date(sunday.Year(), sunday.Month(), sunday.Day(), 23, 59, 59, 0, t.Location())
	return monday, sunday
}

// Weekdays returns Monday through Friday of the ISO week containing t,
// each at midnight in t's location.
func Weekdays(t time.Time) []time.Time {
	monday, _ := WeekRange(t)
	days := make([]time.Time, 0, 5)
	for i := 0; i < 5; i++ {
		days = append(days, monday.AddDate(0, 0, i))
	}
	return days
}

// ISODate formats t as YYYY-MM-DD.
func ISODate(t time.Time) string {
	return t.Format(DateLayout)
}

// PromptLabel returns the human-readable label shown when asking about t.
func PromptLabel(t time.Time) string {
	return t.Format(labelLayout)
}

// ISOWeekLabel returns a label like "2026-W09".
func ISOWeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
