package report

import (
	"reflect"
	"testing"

	"studentportal/internal/upstream"
)

func att(id int64, date, status, subject string) upstream.AttendanceRecord {
	return upstream.AttendanceRecord{ID: id, Date: date, Status: status, SubjectName: subject}
}

func TestSummarizeAttendance(t *testing.T) {
	tests := []struct {
		name     string
		statuses []string
		want     AttendanceSummary
	}{
		{name: "empty", statuses: nil, want: AttendanceSummary{}},
		{
			name:     "late counts as attended",
			statuses: []string{"Present", "Late", "Absent", "Excused"},
			want:     AttendanceSummary{Present: 1, Late: 1, Excused: 1, Absent: 1, Total: 4, Percentage: 50},
		},
		{
			name:     "all present",
			statuses: []string{"Present", "Present"},
			want:     AttendanceSummary{Present: 2, Total: 2, Percentage: 100},
		},
		{
			name:     "rounds to nearest",
			statuses: []string{"Present", "Absent", "Absent"}, // 33.33 -> 33
			want:     AttendanceSummary{Present: 1, Absent: 2, Total: 3, Percentage: 33},
		},
		{
			name:     "rounds half up",
			statuses: []string{"Present", "Present", "Late", "Absent", "Absent", "Absent", "Absent", "Absent"}, // 37.5 -> 38
			want:     AttendanceSummary{Present: 2, Late: 1, Absent: 5, Total: 8, Percentage: 38},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var records []upstream.AttendanceRecord
			for i, s := range tt.statuses {
				records = append(records, att(int64(i), "2026-01-01", s, ""))
			}
			if got := SummarizeAttendance(records); got != tt.want {
				t.Errorf("SummarizeAttendance() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestGroupAttendanceBySubject(t *testing.T) {
	records := []upstream.AttendanceRecord{
		att(1, "2026-01-05", "Present", "Math"),
		att(2, "2026-01-05", "Late", "Physics"),
		att(3, "2026-01-06", "Absent", "Math"),
		att(4, "2026-01-06", "Present", ""),
		att(5, "2026-01-07", "Present", "Math"),
	}

	groups := GroupAttendanceBySubject(records)

	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}
	// buckets in first-occurrence order, no subject -> fallback
	if groups[0].Subject != "Math" || groups[1].Subject != "Physics" || groups[2].Subject != FallbackSubject {
		t.Errorf("bucket order = %q, %q, %q", groups[0].Subject, groups[1].Subject, groups[2].Subject)
	}

	// the partition covers every record exactly once, order kept per bucket
	var ids []int64
	total := 0
	for _, g := range groups {
		total += len(g.Records)
		for _, r := range g.Records {
			ids = append(ids, r.ID)
		}
	}
	if total != len(records) {
		t.Errorf("partition has %d records, want %d", total, len(records))
	}
	if want := []int64{1, 3, 5, 2, 4}; !reflect.DeepEqual(ids, want) {
		t.Errorf("partition order = %v, want %v", ids, want)
	}

	// the Late-counts rule holds inside each bucket too
	if groups[1].Summary.Percentage != 100 {
		t.Errorf("Physics percentage = %d, want 100", groups[1].Summary.Percentage)
	}
}

func TestAverageScore(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   float64
	}{
		{name: "empty", scores: nil, want: 0},
		{name: "single", scores: []float64{80}, want: 80},
		{name: "one decimal", scores: []float64{80, 85}, want: 82.5},
		{name: "rounds to one decimal", scores: []float64{80, 85, 91}, want: 85.3}, // 85.333...
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var grades []upstream.GradeRecord
			for i, s := range tt.scores {
				grades = append(grades, upstream.GradeRecord{ID: int64(i), Score: s})
			}
			if got := AverageScore(grades); got != tt.want {
				t.Errorf("AverageScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGroupGradesBySubject(t *testing.T) {
	grades := []upstream.GradeRecord{
		{ID: 1, Score: 80, SubjectName: "Math"},
		{ID: 2, Score: 85, SubjectName: "Math"},
		{ID: 3, Score: 91, SubjectName: "Math"}, // mean 85.33 -> 85
		{ID: 4, Score: 77.5, Subject: &upstream.SubjectRef{Name: "Biology"}}, // 77.5 -> 78
		{ID: 5, Score: 60},
	}

	groups := GroupGradesBySubject(grades)

	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}
	if groups[0].Subject != "Math" || groups[0].Average != 85 {
		t.Errorf("Math average = %d, want 85", groups[0].Average)
	}
	if groups[1].Subject != "Biology" || groups[1].Average != 78 {
		t.Errorf("Biology average = %d, want 78", groups[1].Average)
	}
	if groups[2].Subject != FallbackSubject || groups[2].Average != 60 {
		t.Errorf("fallback bucket = %q avg %d", groups[2].Subject, groups[2].Average)
	}
}

func TestWeekSchedule(t *testing.T) {
	entries := []upstream.ScheduleEntry{
		{ID: 1, Day: "Tuesday", StartTime: "10:00:00"},
		{ID: 2, Day: "Monday", StartTime: "08:30:00"},
		{ID: 3, Day: "Monday", StartTime: "07:00:00"},
		{ID: 4, Day: "Sunday", StartTime: "09:00:00"},
	}

	week := WeekSchedule(entries)

	if len(week) != 2 {
		t.Fatalf("got %d days, want 2", len(week))
	}
	if week[0].Day != "Monday" || week[1].Day != "Tuesday" {
		t.Errorf("day order = %q, %q", week[0].Day, week[1].Day)
	}
	// within a day, ascending start time
	if week[0].Entries[0].ID != 3 || week[0].Entries[1].ID != 2 {
		t.Errorf("Monday order = %d, %d", week[0].Entries[0].ID, week[0].Entries[1].ID)
	}
}

func TestWeekScheduleEmpty(t *testing.T) {
	if week := WeekSchedule(nil); len(week) != 0 {
		t.Errorf("got %d days, want 0", len(week))
	}
}

func TestTodaySchedule(t *testing.T) {
	entries := []upstream.ScheduleEntry{
		{ID: 1, Day: "Monday", StartTime: "10:00:00"},
		{ID: 2, Day: "Friday", StartTime: "08:00:00"},
		{ID: 3, Day: "Monday", StartTime: "07:00:00"},
	}
	today := TodaySchedule(entries, "Monday")
	if len(today) != 2 || today[0].ID != 3 || today[1].ID != 1 {
		t.Errorf("TodaySchedule() = %+v", today)
	}
}

func TestUnpaidTotal(t *testing.T) {
	tests := []struct {
		name  string
		bills []upstream.Bill
		want  float64
	}{
		{name: "empty", bills: nil, want: 0},
		{
			name: "skips paid",
			bills: []upstream.Bill{
				{Amount: "1500000.00", Status: "Pending"},
				{Amount: "500000.00", Status: "Paid"},
			},
			want: 1500000,
		},
		{
			name: "overdue counts",
			bills: []upstream.Bill{
				{Amount: "100000.00", Status: "Overdue"},
				{Amount: "50000.50", Status: "Pending"},
			},
			want: 150000.5,
		},
		{
			name: "unparsable amount contributes nothing",
			bills: []upstream.Bill{
				{Amount: "oops", Status: "Pending"},
				{Amount: "10.00", Status: "Pending"},
			},
			want: 10,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UnpaidTotal(tt.bills); got != tt.want {
				t.Errorf("UnpaidTotal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortAttendanceNewestFirst(t *testing.T) {
	records := []upstream.AttendanceRecord{
		att(1, "2026-01-05", "Present", ""),
		att(2, "2026-02-01", "Present", ""),
		att(3, "2026-01-20", "Present", ""),
	}
	sorted := SortAttendanceNewestFirst(records)
	if sorted[0].ID != 2 || sorted[1].ID != 3 || sorted[2].ID != 1 {
		t.Errorf("order = %d, %d, %d", sorted[0].ID, sorted[1].ID, sorted[2].ID)
	}
	// input untouched
	if records[0].ID != 1 {
		t.Errorf("input mutated")
	}
}
