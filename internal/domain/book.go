package domain

import (
	"fmt"
	"math"
	"regexp"
	"time"
)

// BookStatus represents the lifecycle state of a reporting period.
type BookStatus string

const (
	// BookStatusActive indicates the book is open and accepting transactions.
	// At most one book may be active system-wide.
	BookStatusActive BookStatus = "ACTIVE"
	// BookStatusInactive indicates the book is paused by an admin.
	BookStatusInactive BookStatus = "INACTIVE"
	// BookStatusClosed indicates the reporting period has ended. Terminal.
	BookStatusClosed BookStatus = "CLOSED"
)

// millisPerDay is the divisor used for day arithmetic. The week-number and
// duration formulas below must stay millisecond-based to keep generated titles
// and recomputed durations stable against historical data.
const millisPerDay = 86_400_000

// TitlePattern is the required format for book titles:
// "Week {n} of {Month} - {Month} - {Year}".
var TitlePattern = regexp.MustCompile(`^Week \d+ of [A-Za-z]+ - [A-Za-z]+ - \d{4}$`)

// Book is a fixed-duration weekly reporting period.
type Book struct {
	Timestamps
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      time.Time  `json:"end_date"`
	DurationDays int        `json:"duration_days"`
	Status       BookStatus `json:"status"`
	CreatedBy    string     `json:"created_by"`
}

// IsActive returns true if the book is accepting transactions.
func (b *Book) IsActive() bool {
	return b.Status == BookStatusActive
}

// IsClosed returns true if the book has reached its terminal state.
func (b *Book) IsClosed() bool {
	return b.Status == BookStatusClosed
}

// IsOverdue returns true if the book is still active past its end date.
func (b *Book) IsOverdue(now time.Time) bool {
	return b.IsActive() && b.EndDate.Before(now)
}

// ContainsDate reports whether d falls within the book's period, inclusive on
// both ends. Dates outside the window are rejected, never clamped.
func (b *Book) ContainsDate(d time.Time) bool {
	return !d.Before(b.StartDate) && !d.After(b.EndDate)
}

// ValidTitle reports whether a title matches the required weekly pattern.
func ValidTitle(title string) bool {
	return TitlePattern.MatchString(title)
}

// DurationDaysBetween computes the day count between two dates as
// ceil((end - start) / 86,400,000 ms). This is the formula applied on every
// book update; it intentionally mirrors the historical implementation rather
// than counting calendar days.
func DurationDaysBetween(start, end time.Time) int {
	ms := end.Sub(start).Milliseconds()
	return int(math.Ceil(float64(ms) / float64(millisPerDay)))
}

// WeekNumber computes the week-of-year for a date using the portal's
// legacy formula: ceil((daysSinceJan1 + weekday(Jan 1) + 1) / 7), with
// daysSinceJan1 taken as a fractional millisecond difference and weekday
// indexed 0=Sunday. This is close to, but NOT, ISO-8601 week numbering;
// it must not be replaced with a standard calculation or generated titles
// would drift from stored ones.
func WeekNumber(date time.Time) int {
	firstOfYear := time.Date(date.Year(), time.January, 1, 0, 0, 0, 0, date.Location())
	pastDays := float64(date.Sub(firstOfYear).Milliseconds()) / float64(millisPerDay)
	return int(math.Ceil((pastDays + float64(firstOfYear.Weekday()) + 1) / 7))
}

// WeeklyTitle synthesizes a title for the book starting at the given date.
// The start month appears twice so the result satisfies TitlePattern.
func WeeklyTitle(start time.Time) string {
	month := start.Month().String()
	return fmt.Sprintf("Week %d of %s - %s - %d", WeekNumber(start), month, month, start.Year())
}

// NextPeriod returns the 7-day window immediately following a book:
// start is the day after the book's end date, end is six days later.
func (b *Book) NextPeriod() (start, end time.Time) {
	start = b.EndDate.AddDate(0, 0, 1)
	end = start.AddDate(0, 0, 6)
	return start, end
}
