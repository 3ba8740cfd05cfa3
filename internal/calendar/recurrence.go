package calendar

import (
	"fmt"
	"strconv"
	"strings"

	"main/internal/model"
)

// Weekday codes are Monday-first, matching the upstream scheduled-event
// recurrence object, not RFC5545's declared order.
var weekdayCodes = [7]string{"MO", "TU", "WE", "TH", "FR", "SA", "SU"}

// Frequency names follow the upstream 0..3 numbering. The order is fixed
// and must not be rearranged.
var frequencyNames = [4]string{"YEARLY", "MONTHLY", "WEEKLY", "DAILY"}

// ConvertRecurrenceRule builds the RFC5545 RRULE line for a scheduled
// event's recurrence object. FREQ and INTERVAL are always present; the BY*
// parts, UNTIL and COUNT are appended only when the rule carries them.
// UNTIL is UTC, truncated to seconds, Z-suffixed.
func ConvertRecurrenceRule(rule model.RecurrenceRule) string {
	var b strings.Builder
	fmt.Fprintf(&b, "RRULE:FREQ=%s;INTERVAL=%d", frequencyNames[rule.Frequency], rule.Interval)

	if len(rule.ByWeekday) > 0 {
		days := make([]string, len(rule.ByWeekday))
		for i, d := range rule.ByWeekday {
			days[i] = weekdayCodes[d]
		}
		b.WriteString(";BYDAY=" + strings.Join(days, ","))
	}
	if len(rule.ByNWeekday) > 0 {
		days := make([]string, len(rule.ByNWeekday))
		for i, d := range rule.ByNWeekday {
			days[i] = strconv.Itoa(d.N) + weekdayCodes[d.Day]
		}
		b.WriteString(";BYDAY=" + strings.Join(days, ","))
	}
	if len(rule.ByMonth) > 0 {
		b.WriteString(";BYMONTH=" + joinInts(rule.ByMonth))
	}
	if len(rule.ByMonthDay) > 0 {
		b.WriteString(";BYMONTHDAY=" + joinInts(rule.ByMonthDay))
	}
	if len(rule.ByYearDay) > 0 {
		b.WriteString(";BYYEARDAY=" + joinInts(rule.ByYearDay))
	}

	if rule.End != nil {
		b.WriteString(";UNTIL=" + rule.End.UTC().Format("20060102T150405") + "Z")
	}
	if rule.Count != nil {
		fmt.Fprintf(&b, ";COUNT=%d", *rule.Count)
	}

	return b.String()
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
