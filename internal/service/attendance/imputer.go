package attendance

import (
	"fmt"
	"math"

	"github.com/cmlabs-hris/salary-per-hour/internal/domain/timesheet"
	"github.com/cmlabs-hris/salary-per-hour/internal/pkg/validator"
)

const secondsPerDay = 24 * 60 * 60

// ImputeStats summarizes one Impute call.
type ImputeStats struct {
	Entries          int
	ImputedCheckIns  int
	ImputedCheckOuts int
	Dropped          int
}

// Averages holds an employee's mean check-in and check-out second-of-day.
// A false Has* flag means the employee has no usable value for that field.
type Averages struct {
	CheckIn     float64
	CheckOut    float64
	HasCheckIn  bool
	HasCheckOut bool
}

type runningMean struct {
	sum   float64
	count int
}

func (m *runningMean) add(v float64) {
	m.sum += v
	m.count++
}

func (m runningMean) mean() (float64, bool) {
	if m.count == 0 {
		return 0, false
	}
	return m.sum / float64(m.count), true
}

type meanAccumulator struct {
	checkIn  runningMean
	checkOut runningMean
}

// ParseTimeOfDay converts a raw HH:MM:SS value to seconds since midnight.
// Nil, empty and unparseable values report ok == false.
func ParseTimeOfDay(raw *string) (seconds float64, ok bool) {
	if raw == nil {
		return 0, false
	}
	t, valid := validator.IsValidTimeOfDay(*raw)
	if !valid {
		return 0, false
	}
	return float64(t.Hour()*3600 + t.Minute()*60 + t.Second()), true
}

// FormatSecondsOfDay renders seconds since midnight as HH:MM:SS, dropping
// any fractional second.
func FormatSecondsOfDay(seconds float64) string {
	s := int(math.Floor(seconds)) % secondsPerDay
	if s < 0 {
		s += secondsPerDay
	}
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, s%3600/60, s%60)
}

// EmployeeAverages computes per-employee mean check-in and check-out from
// the entries that carry a parseable value for that field.
func EmployeeAverages(entries []timesheet.Entry) map[string]Averages {
	acc := make(map[string]*meanAccumulator)
	for _, e := range entries {
		a, ok := acc[e.EmployeeID]
		if !ok {
			a = &meanAccumulator{}
			acc[e.EmployeeID] = a
		}
		if s, ok := ParseTimeOfDay(e.CheckIn); ok {
			a.checkIn.add(s)
		}
		if s, ok := ParseTimeOfDay(e.CheckOut); ok {
			a.checkOut.add(s)
		}
	}

	out := make(map[string]Averages, len(acc))
	for id, a := range acc {
		var avg Averages
		avg.CheckIn, avg.HasCheckIn = a.checkIn.mean()
		avg.CheckOut, avg.HasCheckOut = a.checkOut.mean()
		out[id] = avg
	}
	return out
}

// Impute fills missing check-in and check-out values with the employee's
// own average, recomputes WorkingHours and drops every entry whose working
// hours are not strictly positive. Overnight shifts are not wrapped to the
// next day and are dropped. The input slice is left untouched and the
// relative order of surviving entries is kept.
func Impute(entries []timesheet.Entry) ([]timesheet.Entry, ImputeStats) {
	stats := ImputeStats{Entries: len(entries)}
	averages := EmployeeAverages(entries)

	out := make([]timesheet.Entry, 0, len(entries))
	for _, e := range entries {
		avg := averages[e.EmployeeID]

		in, hasIn := ParseTimeOfDay(e.CheckIn)
		if !hasIn && avg.HasCheckIn {
			in, hasIn = avg.CheckIn, true
			stats.ImputedCheckIns++
		}
		checkOut, hasOut := ParseTimeOfDay(e.CheckOut)
		if !hasOut && avg.HasCheckOut {
			checkOut, hasOut = avg.CheckOut, true
			stats.ImputedCheckOuts++
		}

		if !hasIn || !hasOut {
			stats.Dropped++
			continue
		}

		hours := (checkOut - in) / 3600.0
		if !(hours > 0) {
			stats.Dropped++
			continue
		}

		e.ImputedCheckIn = FormatSecondsOfDay(in)
		e.ImputedCheckOut = FormatSecondsOfDay(checkOut)
		e.WorkingHours = hours
		out = append(out, e)
	}

	return out, stats
}
