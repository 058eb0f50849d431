package features

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/icu-allocator/backend/internal/domain"
)

func TestScale(t *testing.T) {
	require.InDelta(t, 0.5, Scale(10, 0, 20), 1e-9)
	require.InDelta(t, 0, Scale(-5, 0, 20), 1e-9)
	require.InDelta(t, 1, Scale(30, 0, 20), 1e-9)

	// 上下界相同时分母用 epsilon 兜底，结果被裁剪而不是除零
	require.InDelta(t, 1, Scale(5, 3, 3), 1e-9)
	require.InDelta(t, 0, Scale(2, 3, 3), 1e-9)
}

func TestClip(t *testing.T) {
	require.InDelta(t, 0.4, Clip(0.4, 0, 1), 1e-9)
	require.InDelta(t, 0, Clip(-0.1, 0, 1), 1e-9)
	require.InDelta(t, 1, Clip(1.7, 0, 1), 1e-9)
}

func TestEngineerPatient(t *testing.T) {
	p := domain.Patient{
		ID:                   1,
		SofaScore:            10,
		ApacheIIScore:        25,
		LactateMmolL:         0.4,
		MeanArterialPressure: 110,
		VentilatorNeed:       true,
		VentilatorProb:       0.4,
		DialysisNeed:         false,
		NurseIntensity:       0.7,
		Uncertainty:          0.2,
		RiskScore:            0.3,
		RecommendationScore:  0.8,
	}

	out := EngineerPatient(p)

	require.InDelta(t, 0.5, out.Features.SeverityScore, 1e-9)
	require.InDelta(t, 1, out.Features.StabilityScore, 1e-9)
	require.InDelta(t, 0.4, out.Features.ResourceDemand, 1e-9)
	require.InDelta(t, 0.8, out.Features.DataQuality, 1e-9)
	require.InDelta(t, 0.56, out.Features.SurvivalProxy, 1e-9)
	require.InDelta(t, 0.6*(1-0.4)+0.4*1, out.Features.LogisticsScore, 1e-9)

	// 传入的记录不被修改
	require.Equal(t, domain.PatientFeatures{}, p.Features)
}

func TestEngineerPatientClipsOutOfRangeInputs(t *testing.T) {
	p := domain.Patient{
		SofaScore:            99,
		ApacheIIScore:        99,
		LactateMmolL:         50,
		MeanArterialPressure: 10,
		Uncertainty:          1.8,
	}

	out := EngineerPatient(p)

	require.InDelta(t, 1, out.Features.SeverityScore, 1e-9)
	require.InDelta(t, 0, out.Features.StabilityScore, 1e-9)
	require.InDelta(t, 0, out.Features.DataQuality, 1e-9)
}

func TestEngineerBed(t *testing.T) {
	b := domain.Bed{
		ID:                  7,
		VentilatorAvailable: true,
		DialysisReady:       false,
		IsolationRoom:       true,
		NurseCapacity:       4.5,
	}

	out := EngineerBed(b)

	require.InDelta(t, 1, out.Features.VentilatorCapacity, 1e-9)
	require.InDelta(t, 0, out.Features.DialysisCapacity, 1e-9)
	require.InDelta(t, 1, out.Features.IsolationFlag, 1e-9)
	require.InDelta(t, 0.5, out.Features.NurseCapacityNorm, 1e-9)
}

func TestEngineerPatientsPreservesOrderAndLength(t *testing.T) {
	patients := []domain.Patient{{ID: 3}, {ID: 1}, {ID: 2}}
	out := EngineerPatients(patients)

	require.Len(t, out, 3)
	require.Equal(t, int64(3), out[0].ID)
	require.Equal(t, int64(1), out[1].ID)
	require.Equal(t, int64(2), out[2].ID)
}
