package allocator

import (
	"fmt"
	"strings"

	"github.com/sysu-ecnc-dev/icu-allocator/backend/internal/domain"
)

// BuildAssignments 把染色体展开成逐床位的分配记录，空床给出固定的原因文案
func (a *Allocator) BuildAssignments(ch Chromosome) []domain.Assignment {
	assignments := make([]domain.Assignment, 0, len(a.beds))

	for bedIdx, pid := range ch {
		bed := &a.beds[bedIdx]

		if pid == Vacant {
			assignments = append(assignments, domain.Assignment{
				BedID:     bed.ID,
				Specialty: bed.Specialty,
				Reason:    "left vacant due to constraint conflicts",
			})
			continue
		}

		patient := a.lookup[pid]
		assigned := pid
		assignments = append(assignments, domain.Assignment{
			BedID:            bed.ID,
			Specialty:        bed.Specialty,
			AssignedPatient:  &assigned,
			PatientSpecialty: patient.SpecialtyNeed,
			PriorityScore:    patient.Fuzzy.PriorityScore,
			SurvivalScore:    patient.Fuzzy.SurvivalScore,
			VentilatorNeed:   patient.VentilatorNeed,
			DialysisNeed:     patient.DialysisNeed,
			NurseIntensity:   patient.NurseIntensity,
			Reason:           assignmentReason(bed, patient),
		})
	}
	return assignments
}

func assignmentReason(bed *domain.Bed, patient *domain.Patient) string {
	parts := []string{}

	if bed.Specialty == patient.SpecialtyNeed {
		parts = append(parts, "specialty match")
	} else {
		parts = append(parts, "no specialty match")
	}
	if patient.VentilatorNeed {
		if bed.VentilatorAvailable {
			parts = append(parts, "ventilator provided")
		} else {
			parts = append(parts, "ventilator missing")
		}
	}
	if patient.DialysisNeed {
		if bed.DialysisReady {
			parts = append(parts, "dialysis ready")
		} else {
			parts = append(parts, "dialysis missing")
		}
	}
	parts = append(parts, fmt.Sprintf("priority %.2f", patient.Fuzzy.PriorityScore))

	return strings.Join(parts, "; ")
}
