package analysis

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/prescript/prescript/internal/domain/prescription"
)

// NoHistoryMessage is returned when the patient has no completed
// prescriptions to compare against.
const NoHistoryMessage = "No similar historical prescriptions found for this patient."

// maxSimilarCases bounds how many historical records feed the insight
// prompt.
const maxSimilarCases = 3

// History supplies a patient's completed prescriptions. Satisfied by
// *prescription.Service.
type History interface {
	ListCompletedByPatient(ctx context.Context, email string) ([]*prescription.Prescription, error)
}

// InsightGenerator produces the free-text comparison sentence. Satisfied
// by *riskai.Client; implementations degrade internally and never error.
type InsightGenerator interface {
	GenerateInsight(ctx context.Context, prompt string) string
}

type Service struct {
	history History
	insight InsightGenerator
}

func NewService(history History, insight InsightGenerator) *Service {
	return &Service{history: history, insight: insight}
}

// Input describes the proposed prescription being compared against the
// patient's history.
type Input struct {
	CurrentPrescription []string `json:"currentPrescription"`
	Symptoms            []string `json:"symptoms"`
	Diagnosis           string   `json:"diagnosis"`
}

// Result is the analysis payload. AIInsight is nil when the patient has
// no history.
type Result struct {
	Message      string                       `json:"message,omitempty"`
	SimilarCases []*prescription.Prescription `json:"similar_cases"`
	AIInsight    *string                      `json:"ai_insight"`
}

// Analyze selects the patient's most effective completed records and
// asks the insight model to compare them with the proposed prescription.
func (s *Service) Analyze(ctx context.Context, patientEmail string, in Input) (*Result, error) {
	records, err := s.history.ListCompletedByPatient(ctx, patientEmail)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &Result{
			Message:      NoHistoryMessage,
			SimilarCases: []*prescription.Prescription{},
			AIInsight:    nil,
		}, nil
	}

	top := topByEffectiveness(records, maxSimilarCases)
	insight := s.insight.GenerateInsight(ctx, buildPrompt(in, top))
	return &Result{SimilarCases: top, AIInsight: &insight}, nil
}

// topByEffectiveness returns up to n records sorted by effectiveness
// descending, ties broken by newest start date.
func topByEffectiveness(records []*prescription.Prescription, n int) []*prescription.Prescription {
	sorted := make([]*prescription.Prescription, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Effectiveness != sorted[j].Effectiveness {
			return sorted[i].Effectiveness > sorted[j].Effectiveness
		}
		return sorted[i].MedicationStartDate.After(sorted[j].MedicationStartDate)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func buildPrompt(in Input, cases []*prescription.Prescription) string {
	var b strings.Builder
	b.WriteString("A doctor is proposing a new prescription for a patient.\n")
	fmt.Fprintf(&b, "Diagnosis: %s\n", in.Diagnosis)
	fmt.Fprintf(&b, "Symptoms: %s\n", strings.Join(in.Symptoms, ", "))
	fmt.Fprintf(&b, "Proposed medication: %s\n", strings.Join(in.CurrentPrescription, ", "))
	b.WriteString("The patient's most effective past prescriptions were:\n")
	for i, p := range cases {
		meds := make([]string, len(p.Medication))
		for j, m := range p.Medication {
			meds[j] = fmt.Sprintf("%s %dmg x%d/day", m.Medicine, m.Dosage, m.Frequency)
		}
		fmt.Fprintf(&b, "%d. Diagnosis %s, medication [%s], effectiveness %d/10, side effects [%s]\n",
			i+1, p.Diagnosis, strings.Join(meds, "; "), p.Effectiveness, strings.Join(p.SideEffects, ", "))
	}
	b.WriteString("In one sentence, compare the proposed prescription with these past records and note anything the doctor should consider.")
	return b.String()
}
