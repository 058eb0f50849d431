package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/icu-allocator/backend/internal/domain"
)

func patientWith(severity, stability, uncertainty, survivalProxy float64) domain.Patient {
	return domain.Patient{
		Uncertainty: uncertainty,
		Features: domain.PatientFeatures{
			SeverityScore:  severity,
			StabilityScore: stability,
			SurvivalProxy:  survivalProxy,
		},
	}
}

func TestEvaluateCriticalPatient(t *testing.T) {
	// 重症、极不稳定、数据可信：只有危急规则被完全激活
	result := Evaluate(patientWith(0.9, 0.1, 0.05, 0.3))

	require.InDelta(t, 0.95, result.PriorityScore, 1e-9)
	require.Equal(t, domain.BandCritical, result.PriorityBand)
	require.InDelta(t, 1, result.RuleTrace["critical_rule"], 1e-9)
	require.InDelta(t, 0, result.RuleTrace["urgent_rule"], 1e-9)
	require.InDelta(t, 0, result.RuleTrace["routine_rule"], 1e-9)
}

func TestEvaluateRoutinePatient(t *testing.T) {
	result := Evaluate(patientWith(0.1, 0.9, 0.05, 0.5))

	require.InDelta(t, 0.25, result.PriorityScore, 1e-9)
	require.Equal(t, domain.BandRoutine, result.PriorityBand)
	// 生存分 = 0.6*代理 + 0.2*(1-高不稳定) + 0.2*高确定
	require.InDelta(t, 0.6*0.5+0.2+0.2, result.SurvivalScore, 1e-9)
}

func TestEvaluateMidSeverityBlendsRules(t *testing.T) {
	// 中等严重度且稳定：急迫与常规规则同时激活，质心落在两者之间
	result := Evaluate(patientWith(0.5, 0.9, 0.05, 0.5))

	require.InDelta(t, (0.6+0.25)/2, result.PriorityScore, 1e-9)
	require.Equal(t, domain.BandRoutine, result.PriorityBand)
	require.InDelta(t, 1, result.RuleTrace["urgent_rule"], 1e-9)
	require.InDelta(t, 1, result.RuleTrace["routine_rule"], 1e-9)
}

func TestEvaluateZeroActivationFallsBackToZero(t *testing.T) {
	// 稳定且数据极不确定：三条规则全不激活，分母取下限，优先级为零而不是 NaN
	result := Evaluate(patientWith(0.5, 0.6, 0.6, 0.2))

	require.InDelta(t, 0, result.RuleTrace["critical_rule"], 1e-9)
	require.InDelta(t, 0, result.RuleTrace["urgent_rule"], 1e-9)
	require.InDelta(t, 0, result.RuleTrace["routine_rule"], 1e-9)
	require.InDelta(t, 0, result.PriorityScore, 1e-9)
	require.Equal(t, domain.BandRoutine, result.PriorityBand)
}

func TestEvaluatePriorityMonotonicInSeverity(t *testing.T) {
	// 不稳定、数据可信的前提下，严重度升高不应降低优先级
	low := Evaluate(patientWith(0.45, 0.2, 0.05, 0.4))
	high := Evaluate(patientWith(0.85, 0.2, 0.05, 0.4))

	require.GreaterOrEqual(t, high.PriorityScore, low.PriorityScore)
}

func TestEvaluateTraceKeys(t *testing.T) {
	result := Evaluate(patientWith(0.6, 0.4, 0.1, 0.5))

	for _, key := range []string{
		"critical_rule", "urgent_rule", "routine_rule",
		"severity_high", "instability_high", "certainty_high",
	} {
		require.Contains(t, result.RuleTrace, key)
	}
}

func TestScoreDoesNotMutateInput(t *testing.T) {
	patients := []domain.Patient{patientWith(0.9, 0.1, 0.05, 0.3)}
	out := Score(patients)

	require.Equal(t, domain.FuzzyResult{}, patients[0].Fuzzy)
	require.Equal(t, domain.BandCritical, out[0].Fuzzy.PriorityBand)
}
