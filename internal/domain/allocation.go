package domain

import "time"

// AllocationMetrics: 最优解的各项评价指标与罚分
type AllocationMetrics struct {
	SurvivalAvg       float64 `json:"survivalAvg"`
	PriorityAvg       float64 `json:"priorityAvg"`
	Utilization       float64 `json:"utilization"`
	NurseRatio        float64 `json:"nurseRatio"`
	ConstraintPenalty float64 `json:"constraintPenalty"`
	MismatchPenalty   float64 `json:"mismatchPenalty"`
	WorkloadPenalty   float64 `json:"workloadPenalty"`
	FairnessPenalty   float64 `json:"fairnessPenalty"`
}

// Assignment: 单张床位的分配结果，空床时 AssignedPatient 为 nil
type Assignment struct {
	BedID            int64   `json:"bedID"`
	Specialty        string  `json:"specialty"`
	AssignedPatient  *int64  `json:"assignedPatient"`
	PatientSpecialty string  `json:"patientSpecialty,omitempty"`
	PriorityScore    float64 `json:"priorityScore,omitempty"`
	SurvivalScore    float64 `json:"survivalScore,omitempty"`
	VentilatorNeed   bool    `json:"ventilatorNeed,omitempty"`
	DialysisNeed     bool    `json:"dialysisNeed,omitempty"`
	NurseIntensity   float64 `json:"nurseIntensity,omitempty"`
	Reason           string  `json:"reason"`
}

// FeatureImportance: 对已分配病人求均值后的特征影响汇总
type FeatureImportance struct {
	Severity       float64 `json:"severity"`
	Stability      float64 `json:"stability"`
	ResourceDemand float64 `json:"resourceDemand"`
	DataQuality    float64 `json:"dataQuality"`
}

// AllocationReport: 一次优化运行的完整报告
type AllocationReport struct {
	OptimizationScore  AllocationMetrics  `json:"optimizationScore"`
	MethodExplanation  string             `json:"methodExplanation"`
	ConflictResolution []string           `json:"conflictResolution"`
	FeatureImportance  FeatureImportance  `json:"featureImportance"`
	PriorityMix        map[string]float64 `json:"priorityMix"`
}

// AllocationParameters: 遗传算法参数，默认值来自配置
type AllocationParameters struct {
	PopulationSize    int32   `json:"populationSize"`
	Generations       int32   `json:"generations"`
	CrossoverRate     float64 `json:"crossoverRate"`
	MutationRate      float64 `json:"mutationRate"`
	TournamentSize    int32   `json:"tournamentSize"`
	SurvivalWeight    float64 `json:"survivalWeight"`
	PriorityWeight    float64 `json:"priorityWeight"`
	UtilizationWeight float64 `json:"utilizationWeight"`
}

// AllocationRun: 持久化的一次优化运行
type AllocationRun struct {
	ID          int64                `json:"id"`
	Seed        int64                `json:"seed"`
	Parameters  AllocationParameters `json:"parameters"`
	Fitness     float64              `json:"fitness"`
	Assignments []Assignment         `json:"assignments"`
	Report      AllocationReport     `json:"report"`
	CreatedAt   time.Time            `json:"createdAt"`
	Version     int32                `json:"-"`
}
