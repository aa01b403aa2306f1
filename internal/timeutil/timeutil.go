package timeutil

import (
	"time"
)

// GST is the UAE Gulf Standard Time location (UTC+4)
var GST *time.Location

func init() {
	var err error
	GST, err = time.LoadLocation("Asia/Dubai")
	if err != nil {
		// Fallback: create fixed zone if Asia/Dubai not available
		GST = time.FixedZone("GST", 4*60*60) // UTC+4
	}
}

// Now returns the current time in GST
func Now() time.Time {
	return time.Now().In(GST)
}

// ToGST converts any time to GST
func ToGST(t time.Time) time.Time {
	return t.In(GST)
}

// ParseInGST parses a time string and returns it in GST
func ParseInGST(layout, value string) (time.Time, error) {
	t, err := time.ParseInLocation(layout, value, GST)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// FormatGST formats a time in GST using the given layout
func FormatGST(t time.Time, layout string) string {
	return t.In(GST).Format(layout)
}

// StartOfDay returns the start of day (00:00:00) in GST for the given time
func StartOfDay(t time.Time) time.Time {
	gst := t.In(GST)
	return time.Date(gst.Year(), gst.Month(), gst.Day(), 0, 0, 0, 0, GST)
}

// StartOfMonth returns the first instant of the month in GST for the given time
func StartOfMonth(t time.Time) time.Time {
	gst := t.In(GST)
	return time.Date(gst.Year(), gst.Month(), 1, 0, 0, 0, 0, GST)
}

// EndOfDay returns the end of day (23:59:59) in GST for the given time
func EndOfDay(t time.Time) time.Time {
	gst := t.In(GST)
	return time.Date(gst.Year(), gst.Month(), gst.Day(), 23, 59, 59, 999999999, GST)
}

// DaysOverdue returns how many whole days past due a payable is at now:
// positive when the due date has passed, negative when it is still ahead.
func DaysOverdue(dueDate, now time.Time) int {
	due := StartOfDay(dueDate)
	today := StartOfDay(now)
	return int(today.Sub(due).Hours() / 24)
}

// Common layouts for GST formatting
const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04:05"
	DateTimeLayout = "2006-01-02 15:04:05"
	DisplayLayout  = "02 Jan 2006, 03:04 PM"
)
