package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sysu-ecnc-dev/icu-allocator/backend/internal/domain"
	"github.com/sysu-ecnc-dev/icu-allocator/backend/internal/utils"
)

// ValidationError: 输入表格不符合固定模式时返回的错误
// 任何列缺失或字段无法解析都会在打分开始之前让整次载入失败，不存在部分成功
type ValidationError struct {
	Table  string
	Row    int // 0 表示表头错误
	Column string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("%s 表的列 %s 不合法: %s", e.Table, e.Column, e.Reason)
	}
	return fmt.Sprintf("%s 表第 %d 行的列 %s 不合法: %s", e.Table, e.Row, e.Column, e.Reason)
}

// 两张表的列名固定，顺序不限
var patientColumns = []string{
	"patient_id", "age", "sex", "weight_kg", "comorbidity_count", "charlson_index",
	"vitals_score", "sofa_score", "apache_ii_score", "diagnosis_group", "specialty_need",
	"admission_type", "ventilator_need", "ventilator_probability", "dialysis_need",
	"lactate_mmol_l", "mean_arterial_pressure", "los_prediction_days", "risk_score",
	"recommendation_score", "nurse_intensity", "uncertainty",
}

var bedColumns = []string{
	"bed_id", "icu_type", "specialty", "ventilator_available", "nurse_capacity",
	"dialysis_ready", "isolation_room", "advanced_monitoring",
}

// columnIndex 校验表头并返回列名到下标的映射
func columnIndex(table string, header []string, required []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, exists := index[name]; exists {
			return nil, &ValidationError{Table: table, Column: name, Reason: "列名重复"}
		}
		index[name] = i
	}

	for _, name := range required {
		if _, exists := index[name]; !exists {
			return nil, &ValidationError{Table: table, Column: name, Reason: "缺少必需的列"}
		}
	}
	return index, nil
}

type rowReader struct {
	table  string
	index  map[string]int
	record []string
	row    int
	err    error
}

func (r *rowReader) field(column string) string {
	return r.record[r.index[column]]
}

func (r *rowReader) setErr(column, reason string) {
	if r.err == nil {
		r.err = &ValidationError{Table: r.table, Row: r.row, Column: column, Reason: reason}
	}
}

func (r *rowReader) int64Field(column string) int64 {
	v, err := strconv.ParseInt(r.field(column), 10, 64)
	if err != nil {
		r.setErr(column, "不是合法的整数")
	}
	return v
}

func (r *rowReader) int32Field(column string) int32 {
	v, err := strconv.ParseInt(r.field(column), 10, 32)
	if err != nil {
		r.setErr(column, "不是合法的整数")
	}
	return int32(v)
}

func (r *rowReader) floatField(column string) float64 {
	v, err := strconv.ParseFloat(r.field(column), 64)
	if err != nil {
		r.setErr(column, "不是合法的数字")
	}
	return v
}

// 布尔列在 CSV 中写成 0/1，也容忍 true/false
func (r *rowReader) boolField(column string) bool {
	switch r.field(column) {
	case "0", "false":
		return false
	case "1", "true":
		return true
	default:
		r.setErr(column, "不是合法的布尔值")
		return false
	}
}

// LoadPatients 从 CSV 流载入病人表并做模式校验
// 注意这里不做值域裁剪，越界的原始值由特征引擎的 scale 原语兜底
func LoadPatients(reader io.Reader) ([]domain.Patient, error) {
	records, err := csv.NewReader(reader).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &ValidationError{Table: "patients", Column: "patient_id", Reason: "缺少表头"}
	}

	index, err := columnIndex("patients", records[0], patientColumns)
	if err != nil {
		return nil, err
	}

	patients := make([]domain.Patient, 0, len(records)-1)
	for i, record := range records[1:] {
		r := &rowReader{table: "patients", index: index, record: record, row: i + 1}

		patient := domain.Patient{
			ID:                   r.int64Field("patient_id"),
			Age:                  r.int32Field("age"),
			Sex:                  r.field("sex"),
			WeightKg:             r.floatField("weight_kg"),
			ComorbidityCount:     r.int32Field("comorbidity_count"),
			CharlsonIndex:        r.floatField("charlson_index"),
			VitalsScore:          r.floatField("vitals_score"),
			SofaScore:            r.floatField("sofa_score"),
			ApacheIIScore:        r.floatField("apache_ii_score"),
			DiagnosisGroup:       r.field("diagnosis_group"),
			SpecialtyNeed:        r.field("specialty_need"),
			AdmissionType:        r.field("admission_type"),
			VentilatorNeed:       r.boolField("ventilator_need"),
			VentilatorProb:       r.floatField("ventilator_probability"),
			DialysisNeed:         r.boolField("dialysis_need"),
			LactateMmolL:         r.floatField("lactate_mmol_l"),
			MeanArterialPressure: r.floatField("mean_arterial_pressure"),
			LosPredictionDays:    r.floatField("los_prediction_days"),
			RiskScore:            r.floatField("risk_score"),
			RecommendationScore:  r.floatField("recommendation_score"),
			NurseIntensity:       r.floatField("nurse_intensity"),
			Uncertainty:          r.floatField("uncertainty"),
		}
		if r.err != nil {
			return nil, r.err
		}
		patients = append(patients, patient)
	}

	if err := utils.ValidatePatients(patients); err != nil {
		return nil, err
	}
	return patients, nil
}

// LoadBeds 从 CSV 流载入床位表并做模式校验
func LoadBeds(reader io.Reader) ([]domain.Bed, error) {
	records, err := csv.NewReader(reader).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &ValidationError{Table: "beds", Column: "bed_id", Reason: "缺少表头"}
	}

	index, err := columnIndex("beds", records[0], bedColumns)
	if err != nil {
		return nil, err
	}

	beds := make([]domain.Bed, 0, len(records)-1)
	for i, record := range records[1:] {
		r := &rowReader{table: "beds", index: index, record: record, row: i + 1}

		bed := domain.Bed{
			ID:                  r.int64Field("bed_id"),
			ICUType:             r.field("icu_type"),
			Specialty:           r.field("specialty"),
			VentilatorAvailable: r.boolField("ventilator_available"),
			NurseCapacity:       r.floatField("nurse_capacity"),
			DialysisReady:       r.boolField("dialysis_ready"),
			IsolationRoom:       r.boolField("isolation_room"),
			AdvancedMonitoring:  r.boolField("advanced_monitoring"),
		}
		if r.err != nil {
			return nil, r.err
		}
		beds = append(beds, bed)
	}

	if err := utils.ValidateBeds(beds); err != nil {
		return nil, err
	}
	return beds, nil
}

func LoadPatientsFile(path string) ([]domain.Patient, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadPatients(file)
}

func LoadBedsFile(path string) ([]domain.Bed, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadBeds(file)
}
