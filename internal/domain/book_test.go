package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekNumber(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want int
	}{
		{"first day of 2025", date(2025, time.January, 1), 1},
		{"last day of first week 2025", date(2025, time.January, 4), 1},
		{"first sunday of 2025 starts week 2", date(2025, time.January, 5), 2},
		{"mid-year 2025", date(2025, time.July, 1), 27},
		{"last day of 2025", date(2025, time.December, 31), 53},
		{"monday year start 2024", date(2024, time.January, 1), 1},
		{"sunday year start 2023", date(2023, time.January, 1), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeekNumber(tt.date))
		})
	}
}

func TestDurationDaysBetween(t *testing.T) {
	start := date(2025, time.July, 1)

	assert.Equal(t, 0, DurationDaysBetween(start, start))
	assert.Equal(t, 6, DurationDaysBetween(start, date(2025, time.July, 7)))
	assert.Equal(t, 7, DurationDaysBetween(start, date(2025, time.July, 7).Add(12*time.Hour)),
		"partial days round up")
	assert.Equal(t, 1, DurationDaysBetween(start, start.Add(time.Millisecond)))
}

func TestWeeklyTitle(t *testing.T) {
	title := WeeklyTitle(date(2025, time.July, 1))

	assert.Equal(t, "Week 27 of July - July - 2025", title)
	assert.True(t, ValidTitle(title), "generated titles must satisfy TitlePattern")
}

func TestValidTitle(t *testing.T) {
	valid := []string{
		"Week 1 of January - January - 2025",
		"Week 53 of December - December - 2025",
		"Week 10 of March - April - 2026",
	}
	for _, title := range valid {
		assert.True(t, ValidTitle(title), title)
	}

	invalid := []string{
		"",
		"Week of July - July - 2025",
		"Week 27 - July - 2025",
		"Week 27 of July - 2025",
		"Week 27 of July - July - 25",
		"week 27 of July - July - 2025",
		"Week 27 of July - July - 2025 extra",
	}
	for _, title := range invalid {
		assert.False(t, ValidTitle(title), title)
	}
}

func TestBookContainsDate(t *testing.T) {
	book := &Book{
		StartDate: date(2025, time.July, 1),
		EndDate:   date(2025, time.July, 7),
	}

	assert.True(t, book.ContainsDate(date(2025, time.July, 1)), "start date is inclusive")
	assert.True(t, book.ContainsDate(date(2025, time.July, 7)), "end date is inclusive")
	assert.True(t, book.ContainsDate(date(2025, time.July, 4)))
	assert.False(t, book.ContainsDate(date(2025, time.June, 30)))
	assert.False(t, book.ContainsDate(date(2025, time.July, 8)))
}

func TestBookIsOverdue(t *testing.T) {
	end := date(2025, time.July, 7)
	book := &Book{Status: BookStatusActive, EndDate: end}

	assert.False(t, book.IsOverdue(end), "not overdue at the end date itself")
	assert.True(t, book.IsOverdue(end.Add(time.Second)))

	book.Status = BookStatusClosed
	assert.False(t, book.IsOverdue(end.Add(24*time.Hour)), "closed books are never overdue")
}

func TestBookNextPeriod(t *testing.T) {
	book := &Book{
		StartDate: date(2025, time.July, 1),
		EndDate:   date(2025, time.July, 7),
	}

	start, end := book.NextPeriod()
	require.Equal(t, date(2025, time.July, 8), start)
	require.Equal(t, date(2025, time.July, 14), end)
	assert.Equal(t, 6, DurationDaysBetween(start, end))
}
