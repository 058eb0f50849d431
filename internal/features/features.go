package features

import "github.com/sysu-ecnc-dev/icu-allocator/backend/internal/domain"

const epsilon = 1e-6

// Scale 把 x 线性映射到 [0,1] 并裁剪，分母过小时用 epsilon 兜底避免除零
func Scale(x, lower, upper float64) float64 {
	denom := upper - lower
	if denom < epsilon {
		denom = epsilon
	}
	return Clip((x-lower)/denom, 0, 1)
}

func Clip(x, lower, upper float64) float64 {
	if x < lower {
		return lower
	}
	if x > upper {
		return upper
	}
	return x
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// EngineerPatient 从原始临床字段推导归一化特征
// 返回写好特征的副本，不修改传入的记录
func EngineerPatient(p domain.Patient) domain.Patient {
	ventilatorNeed := boolToFloat(p.VentilatorNeed)
	dialysisNeed := boolToFloat(p.DialysisNeed)

	resourceDemand := 0.5*p.VentilatorProb +
		0.2*ventilatorNeed +
		0.2*dialysisNeed +
		0.1*Scale(p.NurseIntensity, 0.7, 2.2)

	stabilityScore := 0.5*(1-Scale(p.LactateMmolL, 0.4, 7.5)) +
		0.5*Scale(p.MeanArterialPressure, 45, 110)

	p.Features = domain.PatientFeatures{
		SeverityScore:  0.6*Scale(p.SofaScore, 0, 20) + 0.4*Scale(p.ApacheIIScore, 5, 45),
		StabilityScore: stabilityScore,
		ResourceDemand: resourceDemand,
		DataQuality:    Clip(1-p.Uncertainty, 0, 1),
		SurvivalProxy:  (1 - p.RiskScore) * p.RecommendationScore,
		LogisticsScore: 0.6*(1-resourceDemand) + 0.4*stabilityScore,
	}
	return p
}

func EngineerPatients(patients []domain.Patient) []domain.Patient {
	out := make([]domain.Patient, len(patients))
	for i, p := range patients {
		out[i] = EngineerPatient(p)
	}
	return out
}

// EngineerBed 把床位的能力标志统一成 {0,1} 并归一化护理容量
func EngineerBed(b domain.Bed) domain.Bed {
	b.Features = domain.BedFeatures{
		VentilatorCapacity: boolToFloat(b.VentilatorAvailable),
		DialysisCapacity:   boolToFloat(b.DialysisReady),
		IsolationFlag:      boolToFloat(b.IsolationRoom),
		NurseCapacityNorm:  Scale(b.NurseCapacity, 3, 6),
	}
	return b
}

func EngineerBeds(beds []domain.Bed) []domain.Bed {
	out := make([]domain.Bed, len(beds))
	for i, b := range beds {
		out[i] = EngineerBed(b)
	}
	return out
}
