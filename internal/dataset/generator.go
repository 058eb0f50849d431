package dataset

import (
	"fmt"
	"math/rand"

	"github.com/sysu-ecnc-dev/icu-allocator/backend/internal/domain"
)

// 合成数据锚定公开的重症统计口径：
// 年龄、SOFA、APACHE-II 分布参考 SCCM Fact & Figures 与 MIMIC-IV 队列摘要，
// 呼吸机使用率基线约 40-45%，诊断构成参考 CDC ICU 监测数据

var specialties = []string{"cardio", "neuro", "trauma", "pulmo", "renal", "general"}
var icuTypes = []string{"cardiac", "neuro", "surgical", "medical", "mixed"}
var admissionTypes = []string{"emergency", "urgent", "elective"}
var diagnosisGroups = []string{
	"sepsis", "cardiac_failure", "neuro_event", "poly_trauma",
	"ards", "renal_failure", "post_op", "covid_resp",
}
var sexes = []string{"F", "M"}

var diagnosisToSpecialty = map[string]string{
	"sepsis":          "general",
	"cardiac_failure": "cardio",
	"neuro_event":     "neuro",
	"poly_trauma":     "trauma",
	"ards":            "pulmo",
	"covid_resp":      "pulmo",
	"renal_failure":   "renal",
	"post_op":         "general",
}

const ventRateBase = 0.42

func clip(value, lower, upper float64) float64 {
	if value < lower {
		return lower
	}
	if value > upper {
		return upper
	}
	return value
}

func gauss(rng *rand.Rand, mean, sd float64) float64 {
	return rng.NormFloat64()*sd + mean
}

// weightedChoice 按权重抽取一个选项
func weightedChoice(rng *rand.Rand, options []string, weights []float64) string {
	var total float64
	for _, w := range weights {
		total += w
	}
	pick := rng.Float64() * total

	var partial float64
	for i, w := range weights {
		partial += w
		if partial >= pick {
			return options[i]
		}
	}
	return options[len(options)-1]
}

func round1(x float64) float64 {
	return float64(int(x*10+0.5)) / 10
}

func round2(x float64) float64 {
	return float64(int(x*100+0.5)) / 100
}

func roundTo3(x float64) float64 {
	return float64(int(x*1000+0.5)) / 1000
}

// GeneratePatients 生成 n 条合成病人记录，随机性完全来自传入的生成器
func GeneratePatients(rng *rand.Rand, n int) []domain.Patient {
	patients := make([]domain.Patient, 0, n)

	for pid := int64(1); pid <= int64(n); pid++ {
		age := int32(clip(gauss(rng, 62, 15), 18, 95))
		sex := weightedChoice(rng, sexes, []float64{0.42, 0.58})

		weightMean := 70.0
		if sex == "M" {
			weightMean = 78
		}
		weight := round1(clip(gauss(rng, weightMean, 12), 45, 150))

		sofa := round1(clip(gauss(rng, 7.5, 3.5), 0, 20))
		apache := clip(gauss(rng, 22, 8), 5, 45)
		comorbidityCount := int32(clip(gauss(rng, 2.1, 1.3), 0, 6))
		charlson := round1(clip(gauss(rng, 4+0.6*float64(comorbidityCount), 1.2), 0, 12))

		diagnosis := weightedChoice(rng, diagnosisGroups,
			[]float64{0.22, 0.15, 0.12, 0.12, 0.11, 0.08, 0.12, 0.08})

		vitals := round1(clip(gauss(rng, 6+sofa/4, 1.2), 0, 10))
		lactate := round1(clip(gauss(rng, 1.8+0.15*sofa, 0.9), 0.4, 7.5))
		mapValue := round1(clip(gauss(rng, 75-1.2*sofa, 12), 45, 110))
		admissionType := weightedChoice(rng, admissionTypes, []float64{0.6, 0.25, 0.15})
		losPrediction := round1(clip(gauss(rng, 6.4+0.25*(sofa-7), 3.1), 1.2, 25))
		nurseIntensity := round2(clip(0.8+0.09*sofa+rng.Float64()*0.28-0.1, 0.7, 2.2))

		ventilatorProb := ventRateBase + 0.02*(sofa-7)
		if diagnosis == "ards" || diagnosis == "covid_resp" {
			ventilatorProb += 0.09
		}
		if charlson > 5 {
			ventilatorProb += 0.015
		}
		ventilatorProb = clip(ventilatorProb, 0.15, 0.95)

		ventilatorNeed := rng.Float64() < ventilatorProb
		dialysisNeed := diagnosis == "renal_failure" && rng.Float64() < 0.65

		riskScore := roundTo3(clip(0.3+0.028*sofa+0.012*float64(comorbidityCount)+gauss(rng, 0, 0.04), 0.2, 0.98))
		recommendationScore := roundTo3(clip(0.72-0.015*sofa+0.02*(1-float64(comorbidityCount)/6)+gauss(rng, 0, 0.04), 0.25, 0.98))

		uncertainty := 0.05 + 0.12*rng.Float64()
		if admissionType == "emergency" {
			uncertainty += 0.01
		}
		uncertainty = roundTo3(clip(uncertainty, 0.05, 0.22))

		patients = append(patients, domain.Patient{
			ID:                   pid,
			Age:                  age,
			Sex:                  sex,
			WeightKg:             weight,
			ComorbidityCount:     comorbidityCount,
			CharlsonIndex:        charlson,
			VitalsScore:          vitals,
			SofaScore:            sofa,
			ApacheIIScore:        apache,
			DiagnosisGroup:       diagnosis,
			SpecialtyNeed:        diagnosisToSpecialty[diagnosis],
			AdmissionType:        admissionType,
			VentilatorNeed:       ventilatorNeed,
			VentilatorProb:       roundTo3(ventilatorProb),
			DialysisNeed:         dialysisNeed,
			LactateMmolL:         lactate,
			MeanArterialPressure: mapValue,
			LosPredictionDays:    losPrediction,
			RiskScore:            riskScore,
			RecommendationScore:  recommendationScore,
			NurseIntensity:       nurseIntensity,
			Uncertainty:          uncertainty,
		})
	}
	return patients
}

// GenerateBeds 生成 n 张合成床位
func GenerateBeds(rng *rand.Rand, n int) []domain.Bed {
	beds := make([]domain.Bed, 0, n)

	for bid := int64(1); bid <= int64(n); bid++ {
		beds = append(beds, domain.Bed{
			ID:                  bid,
			ICUType:             weightedChoice(rng, icuTypes, []float64{0.25, 0.15, 0.2, 0.2, 0.2}),
			Specialty:           weightedChoice(rng, specialties, []float64{0.2, 0.15, 0.18, 0.2, 0.1, 0.17}),
			VentilatorAvailable: rng.Float64() < 0.65,
			NurseCapacity:       round1(3.2 + rng.Float64()*2.6),
			DialysisReady:       rng.Float64() < 0.35,
			IsolationRoom:       rng.Float64() < 0.3,
			AdvancedMonitoring:  true,
		})
	}
	return beds
}

// Describe 返回数据集的简短摘要，种子命令打印用
func Describe(patients []domain.Patient, beds []domain.Bed) string {
	var ventilators, dialysis int
	for _, b := range beds {
		if b.VentilatorAvailable {
			ventilators++
		}
		if b.DialysisReady {
			dialysis++
		}
	}
	return fmt.Sprintf("%d 名病人, %d 张床位（%d 张带呼吸机, %d 张可透析）",
		len(patients), len(beds), ventilators, dialysis)
}
