package types

import (
	"fmt"
	"time"
)

// TimeRange is an inclusive calendar-date range of one period kind.
type TimeRange struct {
	Start  Date   `json:"start"`
	End    Date   `json:"end"`
	Period Period `json:"period"`
}

// RangeFrom returns the period-aligned range containing anchor. Weeks start
// on Monday; months and years span the full calendar unit.
func RangeFrom(anchor Date, period Period) (TimeRange, error) {
	switch period {
	case PeriodDay:
		return TimeRange{Start: anchor, End: anchor, Period: period}, nil
	case PeriodWeek:
		return weekOf(anchor), nil
	case PeriodMonth:
		return monthOf(anchor), nil
	case PeriodYear:
		return yearOf(anchor), nil
	default:
		return TimeRange{}, fmt.Errorf("unsupported period %q", period)
	}
}

func weekOf(anchor Date) TimeRange {
	isoDay := int(anchor.In(time.UTC).Weekday())
	if isoDay == 0 {
		isoDay = 7
	}
	start := anchor.AddDays(1 - isoDay)
	return TimeRange{Start: start, End: start.AddDays(6), Period: PeriodWeek}
}

func monthOf(anchor Date) TimeRange {
	start := NewDate(anchor.Year, anchor.Month, 1)
	firstOfNext := DateOf(time.Date(anchor.Year, anchor.Month+1, 1, 0, 0, 0, 0, time.UTC))
	return TimeRange{Start: start, End: firstOfNext.AddDays(-1), Period: PeriodMonth}
}

func yearOf(anchor Date) TimeRange {
	return TimeRange{
		Start:  NewDate(anchor.Year, time.January, 1),
		End:    NewDate(anchor.Year, time.December, 31),
		Period: PeriodYear,
	}
}

// Previous returns the immediately preceding range of the same kind,
// recomputed structurally so month and year lengths stay correct.
func (r TimeRange) Previous() TimeRange {
	switch r.Period {
	case PeriodWeek:
		return TimeRange{Start: r.Start.AddDays(-7), End: r.End.AddDays(-7), Period: r.Period}
	case PeriodMonth:
		return monthOf(r.Start.AddDays(-1))
	case PeriodYear:
		return yearOf(NewDate(r.Start.Year-1, time.January, 1))
	default:
		return TimeRange{Start: r.Start.AddDays(-1), End: r.End.AddDays(-1), Period: r.Period}
	}
}

// Days lists every date in the range in order.
func (r TimeRange) Days() []Date {
	var days []Date
	for d := r.Start; !d.After(r.End.Date); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

func (r TimeRange) String() string {
	return fmt.Sprintf("%s..%s", r.Start, r.End)
}
