// Package report holds the pure aggregation step between fetched school
// records and the rendered views. Everything here is deterministic and free of
// I/O: the handlers fetch a snapshot, these functions fold it into view models.
package report

import (
	"math"
	"sort"
	"strconv"
	"time"

	"studentportal/internal/upstream"
)

// FallbackSubject buckets records whose subject relation is absent.
const FallbackSubject = "Other"

// daysOrder fixes the weekday enumeration and its display order.
var daysOrder = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// AttendanceSummary counts a list of attendance records by status. Percentage
// counts Late toward the attended total, matching the per-subject rule.
type AttendanceSummary struct {
	Present    int `json:"present"`
	Late       int `json:"late"`
	Excused    int `json:"excused"`
	Absent     int `json:"absent"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// SummarizeAttendance tallies statuses and computes the attended percentage,
// rounded to the nearest whole number. An empty list yields 0, not NaN.
func SummarizeAttendance(records []upstream.AttendanceRecord) AttendanceSummary {
	var s AttendanceSummary
	for _, r := range records {
		switch r.Status {
		case upstream.StatusPresent:
			s.Present++
		case upstream.StatusLate:
			s.Late++
		case upstream.StatusExcused:
			s.Excused++
		case upstream.StatusAbsent:
			s.Absent++
		}
	}
	s.Total = len(records)
	if s.Total > 0 {
		s.Percentage = int(math.Round(100 * float64(s.Present+s.Late) / float64(s.Total)))
	}
	return s
}

// SubjectAttendance is one subject's bucket of attendance records.
type SubjectAttendance struct {
	Subject string                      `json:"subject"`
	Records []upstream.AttendanceRecord `json:"records"`
	Summary AttendanceSummary           `json:"summary"`
}

// GroupAttendanceBySubject partitions records by subject. The partition is
// stable: buckets appear in first-occurrence order and records keep their
// fetch order inside each bucket. Records without a subject land in the
// fallback bucket.
func GroupAttendanceBySubject(records []upstream.AttendanceRecord) []SubjectAttendance {
	index := make(map[string]int)
	groups := []SubjectAttendance{}
	for _, r := range records {
		subject := r.SubjectLabel()
		if subject == "" {
			subject = FallbackSubject
		}
		i, ok := index[subject]
		if !ok {
			i = len(groups)
			index[subject] = i
			groups = append(groups, SubjectAttendance{Subject: subject})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	for i := range groups {
		groups[i].Summary = SummarizeAttendance(groups[i].Records)
	}
	return groups
}

// AverageScore is the arithmetic mean of all scores, rounded to one decimal
// place. 0 on an empty list.
func AverageScore(grades []upstream.GradeRecord) float64 {
	if len(grades) == 0 {
		return 0
	}
	var sum float64
	for _, g := range grades {
		sum += g.Score
	}
	return math.Round(sum/float64(len(grades))*10) / 10
}

// SubjectGrades is one subject's bucket of grade records. Average rounds to
// the nearest integer, a coarser policy than the one-decimal global average;
// both are kept as the views display them.
type SubjectGrades struct {
	Subject string                 `json:"subject"`
	Records []upstream.GradeRecord `json:"records"`
	Average int                    `json:"average"`
}

// GroupGradesBySubject partitions grades by subject with the same stable
// ordering rules as attendance grouping.
func GroupGradesBySubject(grades []upstream.GradeRecord) []SubjectGrades {
	index := make(map[string]int)
	groups := []SubjectGrades{}
	for _, g := range grades {
		subject := g.SubjectLabel()
		if subject == "" {
			subject = FallbackSubject
		}
		i, ok := index[subject]
		if !ok {
			i = len(groups)
			index[subject] = i
			groups = append(groups, SubjectGrades{Subject: subject})
		}
		groups[i].Records = append(groups[i].Records, g)
	}
	for i := range groups {
		var sum float64
		for _, g := range groups[i].Records {
			sum += g.Score
		}
		groups[i].Average = int(math.Round(sum / float64(len(groups[i].Records))))
	}
	return groups
}

// DaySchedule is one weekday's column of the timetable.
type DaySchedule struct {
	Day     string                   `json:"day"`
	Entries []upstream.ScheduleEntry `json:"entries"`
}

// WeekSchedule partitions entries into the Monday-Saturday enumeration, each
// day sorted ascending by start time. The zero-padded "HH:MM:SS" format makes
// plain string comparison correct. Days without entries are omitted.
func WeekSchedule(entries []upstream.ScheduleEntry) []DaySchedule {
	week := []DaySchedule{}
	for _, day := range daysOrder {
		var items []upstream.ScheduleEntry
		for _, e := range entries {
			if e.Day == day {
				items = append(items, e)
			}
		}
		if len(items) == 0 {
			continue
		}
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].StartTime < items[j].StartTime
		})
		week = append(week, DaySchedule{Day: day, Entries: items})
	}
	return week
}

// TodaySchedule filters entries to a single day, sorted by start time.
func TodaySchedule(entries []upstream.ScheduleEntry, day string) []upstream.ScheduleEntry {
	items := []upstream.ScheduleEntry{}
	for _, e := range entries {
		if e.Day == day {
			items = append(items, e)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].StartTime < items[j].StartTime
	})
	return items
}

// DayName maps a Go weekday to the enumeration the schedule records use.
func DayName(d time.Weekday) string {
	return d.String()
}

// UnpaidTotal sums the amounts of bills not yet paid. Amounts travel as
// decimal strings; unparsable ones contribute nothing.
func UnpaidTotal(bills []upstream.Bill) float64 {
	var total float64
	for _, b := range bills {
		if b.Status == upstream.BillPaid {
			continue
		}
		amount, err := strconv.ParseFloat(b.Amount, 64)
		if err != nil {
			continue
		}
		total += amount
	}
	return total
}

// SortAttendanceNewestFirst orders records by calendar date descending, the
// order the history table renders. Dates are "YYYY-MM-DD" so string comparison
// suffices.
func SortAttendanceNewestFirst(records []upstream.AttendanceRecord) []upstream.AttendanceRecord {
	out := make([]upstream.AttendanceRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out
}
