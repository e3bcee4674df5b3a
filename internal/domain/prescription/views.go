package prescription

import (
	"math"
	"sort"
	"time"
)

const day = 24 * time.Hour

// DaysRemaining returns the number of whole days until end, rounding
// partial days up. Never negative.
func DaysRemaining(end, now time.Time) int {
	d := end.Sub(now)
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Hours() / 24))
}

// DaysSinceExpired returns the number of whole days since end passed,
// rounding partial days up. Never negative.
func DaysSinceExpired(end, now time.Time) int {
	d := now.Sub(end)
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Hours() / 24))
}

// IsExpiringSoon reports whether end falls within the next seven days,
// inclusive on both bounds.
func IsExpiringSoon(end, now time.Time) bool {
	return !end.Before(now) && !end.After(now.Add(7*day))
}

// MonthGroup is one (year, month) bucket of prescriptions keyed by
// medication start date.
type MonthGroup struct {
	Year    int             `json:"year"`
	Month   time.Month      `json:"month"`
	Records []*Prescription `json:"records"`
}

// GroupByStartMonth buckets records by the (year, month) of their start
// date. Records inside a bucket are ordered by start date descending;
// buckets are ordered by their newest record's start date, newest first.
func GroupByStartMonth(records []*Prescription) []MonthGroup {
	type key struct {
		year  int
		month time.Month
	}
	buckets := make(map[key][]*Prescription)
	for _, p := range records {
		k := key{p.MedicationStartDate.Year(), p.MedicationStartDate.Month()}
		buckets[k] = append(buckets[k], p)
	}
	groups := make([]MonthGroup, 0, len(buckets))
	for k, recs := range buckets {
		sort.Slice(recs, func(i, j int) bool {
			return recs[i].MedicationStartDate.After(recs[j].MedicationStartDate)
		})
		groups = append(groups, MonthGroup{Year: k.year, Month: k.month, Records: recs})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Records[0].MedicationStartDate.After(groups[j].Records[0].MedicationStartDate)
	})
	return groups
}

// PatientSummary is one row of the per-doctor patient roll-up.
type PatientSummary struct {
	PatientEmail string        `json:"patient_email"`
	PatientName  string        `json:"patient_name"`
	Latest       *Prescription `json:"latest"`
	HasActive    bool          `json:"has_active"`
	HasCompleted bool          `json:"has_completed"`
}

// PatientRollup collapses a doctor's records to one row per patient
// email. The representative record is the one with the latest start
// date. HasActive is true if any non-completed record's end date is
// still in the future (or today); HasCompleted if any record is
// completed. Rows are ordered by the representative start date, newest
// first.
func PatientRollup(records []*Prescription, now time.Time) []PatientSummary {
	byEmail := make(map[string]*PatientSummary)
	var order []string
	for _, p := range records {
		s, ok := byEmail[p.PatientEmail]
		if !ok {
			s = &PatientSummary{PatientEmail: p.PatientEmail}
			byEmail[p.PatientEmail] = s
			order = append(order, p.PatientEmail)
		}
		if s.Latest == nil || p.MedicationStartDate.After(s.Latest.MedicationStartDate) {
			s.Latest = p
			s.PatientName = p.PatientName
		}
		if !p.Completed && !p.MedicationEndDate.Before(now) {
			s.HasActive = true
		}
		if p.Completed {
			s.HasCompleted = true
		}
	}
	summaries := make([]PatientSummary, 0, len(order))
	for _, email := range order {
		summaries = append(summaries, *byEmail[email])
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Latest.MedicationStartDate.After(summaries[j].Latest.MedicationStartDate)
	})
	return summaries
}
