package domain

import "time"

// 优先级档位，由模糊推理层输出
type PriorityBand string

const (
	BandCritical PriorityBand = "critical"
	BandUrgent   PriorityBand = "urgent"
	BandRoutine  PriorityBand = "routine"
)

// PatientFeatures: 由特征引擎从原始字段推导出来的归一化分数，均在 [0,1] 区间内
type PatientFeatures struct {
	SeverityScore  float64 `json:"severityScore"`
	StabilityScore float64 `json:"stabilityScore"`
	ResourceDemand float64 `json:"resourceDemand"`
	DataQuality    float64 `json:"dataQuality"`
	SurvivalProxy  float64 `json:"survivalProxy"`
	LogisticsScore float64 `json:"logisticsScore"`
}

// FuzzyResult: 模糊推理层的输出
type FuzzyResult struct {
	PriorityScore float64            `json:"priorityScore"`
	SurvivalScore float64            `json:"survivalScore"`
	PriorityBand  PriorityBand       `json:"priorityBand"`
	RuleTrace     map[string]float64 `json:"ruleTrace"`
}

// Patient: 一条病人记录
// 原始字段在载入时确定，特征与模糊分数由各自的层写入副本之后，整条记录不再被修改
type Patient struct {
	ID                   int64   `json:"id"`
	Age                  int32   `json:"age"`
	Sex                  string  `json:"sex"`
	WeightKg             float64 `json:"weightKg"`
	ComorbidityCount     int32   `json:"comorbidityCount"`
	CharlsonIndex        float64 `json:"charlsonIndex"`
	VitalsScore          float64 `json:"vitalsScore"`
	SofaScore            float64 `json:"sofaScore"`
	ApacheIIScore        float64 `json:"apacheIIScore"`
	DiagnosisGroup       string  `json:"diagnosisGroup"`
	SpecialtyNeed        string  `json:"specialtyNeed"`
	AdmissionType        string  `json:"admissionType"`
	VentilatorNeed       bool    `json:"ventilatorNeed"`
	VentilatorProb       float64 `json:"ventilatorProbability"`
	DialysisNeed         bool    `json:"dialysisNeed"`
	LactateMmolL         float64 `json:"lactateMmolL"`
	MeanArterialPressure float64 `json:"meanArterialPressure"`
	LosPredictionDays    float64 `json:"losPredictionDays"`
	RiskScore            float64 `json:"riskScore"`
	RecommendationScore  float64 `json:"recommendationScore"`
	NurseIntensity       float64 `json:"nurseIntensity"`
	Uncertainty          float64 `json:"uncertainty"`

	Features PatientFeatures `json:"features"`
	Fuzzy    FuzzyResult     `json:"fuzzy"`

	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}
