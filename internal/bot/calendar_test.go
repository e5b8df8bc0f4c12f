package bot

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCalendarKeyboard(t *testing.T) {
	kb := GenerateCalendarKeyboard(2025, 9)

	// Header, weekday row, at least four week rows, cancel row.
	require.GreaterOrEqual(t, len(kb.InlineKeyboard), 7)

	header := kb.InlineKeyboard[0]
	require.Len(t, header, 3)
	assert.Equal(t, "cal_nav:2025-08", *header[0].CallbackData)
	assert.Equal(t, "September 2025", header[1].Text)
	assert.Equal(t, "cal_nav:2025-10", *header[2].CallbackData)

	weekdays := kb.InlineKeyboard[1]
	require.Len(t, weekdays, 7)
	assert.Equal(t, "Mo", weekdays[0].Text)
	assert.Equal(t, "Su", weekdays[6].Text)

	var days, fillers int
	var first, last string
	for _, row := range kb.InlineKeyboard[2 : len(kb.InlineKeyboard)-1] {
		require.Len(t, row, 7)
		for _, btn := range row {
			data := *btn.CallbackData
			if strings.HasPrefix(data, "date:") {
				if first == "" {
					first = data
				}
				last = data
				days++
			} else {
				fillers++
			}
		}
	}
	assert.Equal(t, 30, days, "September has 30 days")
	assert.Equal(t, "date:2025-09-01", first)
	assert.Equal(t, "date:2025-09-30", last)
	assert.Greater(t, fillers, 0)

	cancel := kb.InlineKeyboard[len(kb.InlineKeyboard)-1]
	require.Len(t, cancel, 1)
	assert.Equal(t, "cancel_booking", *cancel[0].CallbackData)
}

func TestGenerateCalendarKeyboardMondayFirst(t *testing.T) {
	// September 2025 starts on a Monday: day 1 sits in the first column.
	kb := GenerateCalendarKeyboard(2025, 9)
	firstWeek := kb.InlineKeyboard[2]
	assert.Equal(t, "1", firstWeek[0].Text)

	// November 2025 starts on a Saturday: five leading fillers.
	kb = GenerateCalendarKeyboard(2025, 11)
	firstWeek = kb.InlineKeyboard[2]
	for col := 0; col < 5; col++ {
		assert.Equal(t, "noop", *firstWeek[col].CallbackData, "column %d should be a filler", col)
	}
	assert.Equal(t, "1", firstWeek[5].Text)
}

func TestDaysIn(t *testing.T) {
	tests := []struct {
		year  int
		month int
		want  int
	}{
		{2025, 1, 31},
		{2025, 2, 28},
		{2024, 2, 29}, // leap year
		{2100, 2, 28}, // century, not leap
		{2000, 2, 29}, // divisible by 400
		{2025, 4, 30},
		{2025, 12, 31},
	}
	for _, tt := range tests {
		got := daysIn(time.Month(tt.month), tt.year)
		assert.Equal(t, tt.want, got, "%04d-%02d", tt.year, tt.month)
	}
}
