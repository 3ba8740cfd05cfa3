package model

import "time"

// ScheduledEvent is the normalized view of a guild scheduled event. ID is
// the upstream event id and doubles as the idempotency key against the
// calendar provider.
type ScheduledEvent struct {
	ID          string
	Name        string
	Description *string
	StartTime   time.Time
	EndTime     *time.Time
	CreatorID   *string
	Location    *string
	Recurrence  *string // already serialized RRULE line
	URL         *string
}

// NWeekday is an "Nth weekday of the period" recurrence entry, e.g.
// {N: 2, Day: 0} for the second Monday.
type NWeekday struct {
	N   int `json:"n"`
	Day int `json:"day"`
}

// RecurrenceRule mirrors the upstream scheduled-event recurrence object.
// Frequency is 0=YEARLY 1=MONTHLY 2=WEEKLY 3=DAILY; weekdays are
// Monday-first 0..6. Both orderings are upstream's, not RFC5545's.
type RecurrenceRule struct {
	Start      time.Time  `json:"start"`
	End        *time.Time `json:"end"`
	Frequency  int        `json:"frequency"`
	Interval   int        `json:"interval"`
	ByWeekday  []int      `json:"by_weekday"`
	ByNWeekday []NWeekday `json:"by_n_weekday"`
	ByMonth    []int      `json:"by_month"`
	ByMonthDay []int      `json:"by_month_day"`
	ByYearDay  []int      `json:"by_year_day"`
	Count      *int       `json:"count"`
}
