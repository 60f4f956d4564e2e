package model

import "time"

const (
	// ISODateLayout names cache files, CSV files and the date column.
	ISODateLayout = "2006-01-02"

	// FormDateLayout is the DD/MM/YYYY format the archive form expects.
	FormDateLayout = "02/01/2006"
)

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ISODate renders a date as YYYY-MM-DD.
func ISODate(t time.Time) string {
	return t.Format(ISODateLayout)
}

// FormDate renders a date as DD/MM/YYYY.
func FormDate(t time.Time) string {
	return t.Format(FormDateLayout)
}

// ParseISODate parses YYYY-MM-DD into a UTC day.
func ParseISODate(s string) (time.Time, error) {
	return time.ParseInLocation(ISODateLayout, s, time.UTC)
}

// PreviousWeekday returns the latest day on or before t that falls on wd.
func PreviousWeekday(t time.Time, wd time.Weekday) time.Time {
	t = Day(t)
	back := (int(t.Weekday()) - int(wd) + 7) % 7
	return t.AddDate(0, 0, -back)
}
