package prescription

import (
	"testing"
	"time"
)

var viewNow = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func TestDaysRemaining(t *testing.T) {
	tests := []struct {
		name string
		end  time.Time
		want int
	}{
		{"exact now", viewNow, 0},
		{"in the past", viewNow.Add(-3 * day), 0},
		{"half day ahead rounds up", viewNow.Add(12 * time.Hour), 1},
		{"one day ahead", viewNow.Add(day), 1},
		{"ten and a half days ahead", viewNow.Add(10*day + time.Hour), 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysRemaining(tt.end, viewNow); got != tt.want {
				t.Errorf("DaysRemaining = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDaysSinceExpired(t *testing.T) {
	tests := []struct {
		name string
		end  time.Time
		want int
	}{
		{"exact now", viewNow, 0},
		{"in the future", viewNow.Add(2 * day), 0},
		{"half day ago rounds up", viewNow.Add(-12 * time.Hour), 1},
		{"five days ago", viewNow.Add(-5 * day), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysSinceExpired(tt.end, viewNow); got != tt.want {
				t.Errorf("DaysSinceExpired = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsExpiringSoon(t *testing.T) {
	tests := []struct {
		name string
		end  time.Time
		want bool
	}{
		{"already past", viewNow.Add(-time.Hour), false},
		{"right now", viewNow, true},
		{"three days out", viewNow.Add(3 * day), true},
		{"exactly seven days out", viewNow.Add(7 * day), true},
		{"eight days out", viewNow.Add(8 * day), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsExpiringSoon(tt.end, viewNow); got != tt.want {
				t.Errorf("IsExpiringSoon = %v, want %v", got, tt.want)
			}
		})
	}
}

func rec(email string, start, end time.Time, completed bool) *Prescription {
	return &Prescription{
		PatientEmail:        email,
		PatientName:         email,
		MedicationStartDate: start,
		MedicationEndDate:   end,
		Completed:           completed,
	}
}

func TestGroupByStartMonth(t *testing.T) {
	jan := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	febEarly := time.Date(2025, time.February, 2, 0, 0, 0, 0, time.UTC)
	febLate := time.Date(2025, time.February, 20, 0, 0, 0, 0, time.UTC)
	records := []*Prescription{
		rec("a@x.com", jan, jan.Add(7*day), false),
		rec("a@x.com", febEarly, febEarly.Add(7*day), false),
		rec("a@x.com", febLate, febLate.Add(7*day), false),
	}
	groups := GroupByStartMonth(records)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Month != time.February {
		t.Errorf("newest bucket first: expected February, got %v", groups[0].Month)
	}
	if len(groups[0].Records) != 2 {
		t.Fatalf("expected 2 records in February, got %d", len(groups[0].Records))
	}
	if !groups[0].Records[0].MedicationStartDate.Equal(febLate) {
		t.Error("records within a bucket must be ordered start date descending")
	}
	if groups[1].Month != time.January {
		t.Errorf("expected January second, got %v", groups[1].Month)
	}
}

func TestGroupByStartMonth_Empty(t *testing.T) {
	if groups := GroupByStartMonth(nil); len(groups) != 0 {
		t.Errorf("expected no groups, got %d", len(groups))
	}
}

func TestPatientRollup(t *testing.T) {
	older := viewNow.Add(-30 * day)
	newer := viewNow.Add(-5 * day)
	records := []*Prescription{
		rec("jane@example.com", older, older.Add(7*day), true),
		rec("jane@example.com", newer, viewNow.Add(10*day), false),
		rec("bob@example.com", older, older.Add(7*day), false),
	}
	rows := PatientRollup(records, viewNow)
	if len(rows) != 2 {
		t.Fatalf("expected 2 patients, got %d", len(rows))
	}
	jane := rows[0]
	if jane.PatientEmail != "jane@example.com" {
		t.Fatalf("expected jane first (newest representative), got %s", jane.PatientEmail)
	}
	if !jane.Latest.MedicationStartDate.Equal(newer) {
		t.Error("representative must be the record with the latest start date")
	}
	if !jane.HasActive {
		t.Error("jane has a non-completed record with end >= now")
	}
	if !jane.HasCompleted {
		t.Error("jane has a completed record")
	}
	bob := rows[1]
	if bob.HasActive {
		t.Error("bob's only record already ended; HasActive should be false")
	}
	if bob.HasCompleted {
		t.Error("bob has no completed records")
	}
}

func TestPatientRollup_Empty(t *testing.T) {
	if rows := PatientRollup(nil, viewNow); len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}
