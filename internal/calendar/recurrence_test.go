package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"main/internal/model"
)

func intp(n int) *int { return &n }

func TestConvertRecurrenceRule(t *testing.T) {
	until := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		rule     model.RecurrenceRule
		expected string
	}{
		{
			name: "weekly by weekday",
			rule: model.RecurrenceRule{
				Frequency: 2,
				Interval:  1,
				ByWeekday: []int{0, 2},
			},
			expected: "RRULE:FREQ=WEEKLY;INTERVAL=1;BYDAY=MO,WE",
		},
		{
			name: "daily minimal",
			rule: model.RecurrenceRule{
				Frequency: 3,
				Interval:  2,
			},
			expected: "RRULE:FREQ=DAILY;INTERVAL=2",
		},
		{
			name: "monthly by nth weekday",
			rule: model.RecurrenceRule{
				Frequency:  1,
				Interval:   1,
				ByNWeekday: []model.NWeekday{{N: 2, Day: 4}},
			},
			expected: "RRULE:FREQ=MONTHLY;INTERVAL=1;BYDAY=2FR",
		},
		{
			name: "yearly by month and month day",
			rule: model.RecurrenceRule{
				Frequency:  0,
				Interval:   1,
				ByMonth:    []int{1, 7},
				ByMonthDay: []int{1, 15},
			},
			expected: "RRULE:FREQ=YEARLY;INTERVAL=1;BYMONTH=1,7;BYMONTHDAY=1,15",
		},
		{
			name: "yearly by year day",
			rule: model.RecurrenceRule{
				Frequency: 0,
				Interval:  1,
				ByYearDay: []int{100, 200},
			},
			expected: "RRULE:FREQ=YEARLY;INTERVAL=1;BYYEARDAY=100,200",
		},
		{
			name: "weekly with until",
			rule: model.RecurrenceRule{
				Frequency: 2,
				Interval:  1,
				ByWeekday: []int{0, 2},
				End:       &until,
			},
			expected: "RRULE:FREQ=WEEKLY;INTERVAL=1;BYDAY=MO,WE;UNTIL=20241231T000000Z",
		},
		{
			name: "until truncates sub-second precision and converts to UTC",
			rule: model.RecurrenceRule{
				Frequency: 3,
				Interval:  1,
				End:       timep(time.Date(2025, 6, 1, 18, 30, 45, 987654321, time.FixedZone("JST", 9*60*60))),
			},
			expected: "RRULE:FREQ=DAILY;INTERVAL=1;UNTIL=20250601T093045Z",
		},
		{
			name: "count comes last",
			rule: model.RecurrenceRule{
				Frequency: 2,
				Interval:  1,
				ByWeekday: []int{5},
				End:       &until,
				Count:     intp(10),
			},
			expected: "RRULE:FREQ=WEEKLY;INTERVAL=1;BYDAY=SA;UNTIL=20241231T000000Z;COUNT=10",
		},
		{
			name: "sunday is the last weekday code",
			rule: model.RecurrenceRule{
				Frequency: 2,
				Interval:  1,
				ByWeekday: []int{6},
			},
			expected: "RRULE:FREQ=WEEKLY;INTERVAL=1;BYDAY=SU",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ConvertRecurrenceRule(tc.rule))
		})
	}
}

func TestConvertRecurrenceRule_Deterministic(t *testing.T) {
	rule := model.RecurrenceRule{
		Frequency: 2,
		Interval:  1,
		ByWeekday: []int{0, 2},
	}
	first := ConvertRecurrenceRule(rule)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ConvertRecurrenceRule(rule))
	}
}

func timep(t time.Time) *time.Time { return &t }
