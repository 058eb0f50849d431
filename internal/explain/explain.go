package explain

import (
	"fmt"
	"math"
	"strings"

	"github.com/sysu-ecnc-dev/icu-allocator/backend/internal/domain"
)

// Summary: 中选方案回连病人特征之后的聚合结果
type Summary struct {
	FeatureImportance domain.FeatureImportance
	PriorityMix       map[string]float64
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}

// Summarize 汇总已分配病人的特征均值和优先级档位分布
// 注意严重度这一项把空床也计入分母（按零占位），其余特征只对已分配的病人求均值
func Summarize(assignments []domain.Assignment, patients []domain.Patient) Summary {
	lookup := make(map[int64]*domain.Patient, len(patients))
	for i := range patients {
		lookup[patients[i].ID] = &patients[i]
	}

	var severitySum, stabilitySum, resourceSum, qualitySum float64
	var assigned int
	bandCounts := make(map[string]int)

	for _, as := range assignments {
		if as.AssignedPatient == nil {
			continue
		}
		patient, exists := lookup[*as.AssignedPatient]
		if !exists {
			continue
		}
		assigned++
		severitySum += patient.Features.SeverityScore
		stabilitySum += patient.Features.StabilityScore
		resourceSum += patient.Features.ResourceDemand
		qualitySum += patient.Features.DataQuality
		bandCounts[string(patient.Fuzzy.PriorityBand)]++
	}

	importance := domain.FeatureImportance{}
	if len(assignments) > 0 {
		importance.Severity = round3(severitySum / float64(len(assignments)))
	}
	if assigned > 0 {
		importance.Stability = round3(stabilitySum / float64(assigned))
		importance.ResourceDemand = round3(resourceSum / float64(assigned))
		importance.DataQuality = round3(qualitySum / float64(assigned))
	}

	mix := make(map[string]float64, len(bandCounts))
	for band, cnt := range bandCounts {
		mix[band] = round3(float64(cnt) / float64(assigned))
	}

	return Summary{
		FeatureImportance: importance,
		PriorityMix:       mix,
	}
}

// ConflictLog 在评估器产出的冲突之后，给每张空床追加一条固定格式的记录
// 追加顺序跟随分配记录的顺序，保证报告可复现
func ConflictLog(conflicts []string, assignments []domain.Assignment) []string {
	log := make([]string, len(conflicts))
	copy(log, conflicts)

	for _, as := range assignments {
		if as.AssignedPatient == nil {
			log = append(log, fmt.Sprintf("bed %d (%s) left vacant -> no safe candidate", as.BedID, as.Specialty))
		}
	}
	return log
}

// MethodExplanation 生成一段自然语言的方法说明
func MethodExplanation(metrics *domain.AllocationMetrics, summary Summary) string {
	parts := []string{
		"Hybrid fuzzy-GA optimizer: fuzzy layer scores patients on severity, stability,",
		"and data certainty; GA searches bed allocations maximizing survival and",
		"priority while constraining nurse workload and equipment readiness.",
	}
	parts = append(parts, fmt.Sprintf(
		"Average survival score %.3f, priority %.3f, utilization %.2f.",
		metrics.SurvivalAvg, metrics.PriorityAvg, metrics.Utilization,
	))

	fi := summary.FeatureImportance
	parts = append(parts, fmt.Sprintf(
		"Feature influence (avg normalized): severity %v, stability %v, resource demand %v, data quality %v.",
		fi.Severity, fi.Stability, fi.ResourceDemand, fi.DataQuality,
	))

	if len(summary.PriorityMix) > 0 {
		bands := []string{"critical", "urgent", "routine"}
		dist := make([]string, 0, len(summary.PriorityMix))
		for _, band := range bands {
			if share, exists := summary.PriorityMix[band]; exists {
				dist = append(dist, fmt.Sprintf("%s:%.2f", band, share))
			}
		}
		parts = append(parts, fmt.Sprintf("Priority mix across beds -> %s.", strings.Join(dist, ", ")))
	}

	return strings.Join(parts, " ")
}

// BuildReport 组装完整的优化报告
func BuildReport(metrics *domain.AllocationMetrics, conflicts []string, assignments []domain.Assignment, patients []domain.Patient) domain.AllocationReport {
	summary := Summarize(assignments, patients)
	return domain.AllocationReport{
		OptimizationScore:  *metrics,
		MethodExplanation:  MethodExplanation(metrics, summary),
		ConflictResolution: ConflictLog(conflicts, assignments),
		FeatureImportance:  summary.FeatureImportance,
		PriorityMix:        summary.PriorityMix,
	}
}
