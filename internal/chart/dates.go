package chart

import (
	"time"

	"github.com/gmakarov/gantt-chart-api/internal/models"
)

// DateLayout is the wire format for chart dates.
const DateLayout = "2006-01-02"

// Clock supplies the current date. Injectable so that derived actual dates
// are deterministic under test.
type Clock interface {
	Today() time.Time
}

type systemClock struct{}

func (systemClock) Today() time.Time {
	return truncateToDay(time.Now())
}

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock {
	return systemClock{}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// PlannedEnd computes the planned end date: start + duration - 1 day.
// A one day event ends the day it starts.
func PlannedEnd(start time.Time, duration int) time.Time {
	return start.AddDate(0, 0, duration-1)
}

// daysInclusive counts the days between two dates, both ends included.
func daysInclusive(from, to time.Time) int {
	return int(truncateToDay(to).Sub(truncateToDay(from)).Hours()/24) + 1
}

// SetActualDates derives the actual_* fields of an event from its completion
// percentage:
//
//	0%        -> all actual fields are cleared
//	1..99%    -> started (today if no prior start), running duration, no end
//	100%      -> finished today, duration spans start..end
//
// A previously recorded actual start is never overwritten.
func SetActualDates(event *models.ChartEvent, clock Clock) {
	if event.PercentageCompletion == 0 {
		event.ActualStart = nil
		event.ActualDuration = nil
		event.ActualEnd = nil
		return
	}

	today := truncateToDay(clock.Today())

	if event.PercentageCompletion < 100 {
		if event.ActualStart == nil {
			start := today
			event.ActualStart = &start
		}
		duration := daysInclusive(*event.ActualStart, today)
		event.ActualDuration = &duration
		event.ActualEnd = nil
		return
	}

	end := today
	event.ActualEnd = &end
	if event.ActualStart == nil {
		start := today
		event.ActualStart = &start
	}
	duration := daysInclusive(*event.ActualStart, *event.ActualEnd)
	event.ActualDuration = &duration
}
