package domain

import "time"

// BedFeatures: 床位侧的派生字段，容量标志统一成 {0,1}
type BedFeatures struct {
	VentilatorCapacity float64 `json:"ventilatorCapacity"`
	DialysisCapacity   float64 `json:"dialysisCapacity"`
	IsolationFlag      float64 `json:"isolationFlag"`
	NurseCapacityNorm  float64 `json:"nurseCapacityNorm"`
}

// Bed: 一张 ICU 床位，数量在单次优化运行中固定不变
type Bed struct {
	ID                  int64   `json:"id"`
	ICUType             string  `json:"icuType"`
	Specialty           string  `json:"specialty"`
	VentilatorAvailable bool    `json:"ventilatorAvailable"`
	NurseCapacity       float64 `json:"nurseCapacity"`
	DialysisReady       bool    `json:"dialysisReady"`
	IsolationRoom       bool    `json:"isolationRoom"`
	AdvancedMonitoring  bool    `json:"advancedMonitoring"`

	Features BedFeatures `json:"features"`

	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}
