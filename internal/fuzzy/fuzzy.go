package fuzzy

import (
	"math"

	"github.com/sysu-ecnc-dev/icu-allocator/backend/internal/domain"
)

// 三条规则的去模糊化权重
const (
	weightCritical = 0.95
	weightUrgent   = 0.6
	weightRoutine  = 0.25
)

// triangular: 标准三角隶属函数，b 处取 1，[a,c] 之外取 0
func triangular(x, a, b, c float64) float64 {
	if x <= a || x >= c {
		return 0
	}
	if x == b {
		return 1
	}
	if x < b {
		return (x - a) / (b - a)
	}
	return (c - x) / (c - b)
}

// trapezoid: 标准梯形隶属函数，[b,c] 为平台，[a,d] 之外取 0
func trapezoid(x, a, b, c, d float64) float64 {
	if x <= a || x >= d {
		return 0
	}
	if b <= x && x <= c {
		return 1
	}
	if a < x && x < b {
		return (x - a) / (b - a)
	}
	return (d - x) / (d - c)
}

// memberships: 从严重度、稳定度和不确定度计算七个隶属度
type memberships struct {
	severityLow     float64
	severityMed     float64
	severityHigh    float64
	instabilityHigh float64
	stabilityHigh   float64
	certaintyLow    float64
	certaintyHigh   float64
}

func membershipSets(severity, stability, uncertainty float64) memberships {
	return memberships{
		severityLow:     trapezoid(severity, 0, 0, 0.25, 0.45),
		severityMed:     triangular(severity, 0.3, 0.5, 0.7),
		severityHigh:    trapezoid(severity, 0.6, 0.75, 1, 1),
		instabilityHigh: trapezoid(1-stability, 0.4, 0.55, 1, 1),
		stabilityHigh:   trapezoid(stability, 0.5, 0.65, 1, 1),
		certaintyLow:    trapezoid(uncertainty, 0.12, 0.18, 0.25, 0.3),
		certaintyHigh:   trapezoid(1-uncertainty, 0.5, 0.7, 1, 1),
	}
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}

// Evaluate 对单个病人执行模糊推理，返回优先级分数、生存分数、档位和规则激活痕迹
// 模糊与取 min，模糊或取 max
func Evaluate(p domain.Patient) domain.FuzzyResult {
	sets := membershipSets(p.Features.SeverityScore, p.Features.StabilityScore, p.Uncertainty)

	critical := math.Max(
		math.Min(sets.severityHigh, sets.instabilityHigh),
		min3(sets.severityMed, sets.instabilityHigh, 1-sets.certaintyHigh),
	)
	urgent := math.Max(
		math.Min(sets.severityMed, sets.certaintyHigh),
		min3(sets.severityHigh, sets.stabilityHigh, sets.certaintyHigh),
	)
	routine := math.Max(
		math.Min(sets.severityLow, sets.stabilityHigh),
		min3(sets.severityMed, sets.stabilityHigh, sets.certaintyHigh),
	)

	// 加权质心去模糊化，分母下限 1e-6，因此只有三条规则全为零时优先级才为零
	numerator := critical*weightCritical + urgent*weightUrgent + routine*weightRoutine
	denominator := math.Max(critical+urgent+routine, 1e-6)
	priorityScore := numerator / denominator

	survivalScore := 0.6*p.Features.SurvivalProxy +
		0.2*(1-sets.instabilityHigh) +
		0.2*sets.certaintyHigh

	var band domain.PriorityBand
	switch {
	case priorityScore >= 0.75:
		band = domain.BandCritical
	case priorityScore >= 0.5:
		band = domain.BandUrgent
	default:
		band = domain.BandRoutine
	}

	return domain.FuzzyResult{
		PriorityScore: round3(priorityScore),
		SurvivalScore: round3(survivalScore),
		PriorityBand:  band,
		RuleTrace: map[string]float64{
			"critical_rule":    round3(critical),
			"urgent_rule":      round3(urgent),
			"routine_rule":     round3(routine),
			"severity_high":    round3(sets.severityHigh),
			"instability_high": round3(sets.instabilityHigh),
			"certainty_high":   round3(sets.certaintyHigh),
		},
	}
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

// Score 给一批病人写入模糊推理结果，返回副本，打分之后记录视为只读
func Score(patients []domain.Patient) []domain.Patient {
	out := make([]domain.Patient, len(patients))
	for i, p := range patients {
		p.Fuzzy = Evaluate(p)
		out[i] = p
	}
	return out
}
