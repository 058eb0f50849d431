package handler

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/icu-allocator/backend/internal/dataset"
	"github.com/sysu-ecnc-dev/icu-allocator/backend/internal/domain"
)

func (h *Handler) GetAllPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := h.repository.GetAllPatients()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取病人列表成功", patients)
}

func (h *Handler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PatientID            int64   `json:"patientID" validate:"required,min=1"`
		Age                  int32   `json:"age" validate:"required,min=0,max=130"`
		Sex                  string  `json:"sex" validate:"required,oneof=F M"`
		WeightKg             float64 `json:"weightKg" validate:"required,gt=0"`
		ComorbidityCount     int32   `json:"comorbidityCount" validate:"min=0"`
		CharlsonIndex        float64 `json:"charlsonIndex" validate:"min=0"`
		VitalsScore          float64 `json:"vitalsScore" validate:"min=0"`
		SofaScore            float64 `json:"sofaScore" validate:"min=0"`
		ApacheIIScore        float64 `json:"apacheIIScore" validate:"min=0"`
		DiagnosisGroup       string  `json:"diagnosisGroup" validate:"required"`
		SpecialtyNeed        string  `json:"specialtyNeed" validate:"required"`
		AdmissionType        string  `json:"admissionType" validate:"required,oneof=emergency urgent elective"`
		VentilatorNeed       bool    `json:"ventilatorNeed"`
		VentilatorProb       float64 `json:"ventilatorProbability" validate:"min=0,max=1"`
		DialysisNeed         bool    `json:"dialysisNeed"`
		LactateMmolL         float64 `json:"lactateMmolL" validate:"min=0"`
		MeanArterialPressure float64 `json:"meanArterialPressure" validate:"min=0"`
		LosPredictionDays    float64 `json:"losPredictionDays" validate:"min=0"`
		RiskScore            float64 `json:"riskScore" validate:"min=0,max=1"`
		RecommendationScore  float64 `json:"recommendationScore" validate:"min=0,max=1"`
		NurseIntensity       float64 `json:"nurseIntensity" validate:"gt=0"`
		Uncertainty          float64 `json:"uncertainty" validate:"min=0,max=1"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	patient := &domain.Patient{
		ID:                   req.PatientID,
		Age:                  req.Age,
		Sex:                  req.Sex,
		WeightKg:             req.WeightKg,
		ComorbidityCount:     req.ComorbidityCount,
		CharlsonIndex:        req.CharlsonIndex,
		VitalsScore:          req.VitalsScore,
		SofaScore:            req.SofaScore,
		ApacheIIScore:        req.ApacheIIScore,
		DiagnosisGroup:       req.DiagnosisGroup,
		SpecialtyNeed:        req.SpecialtyNeed,
		AdmissionType:        req.AdmissionType,
		VentilatorNeed:       req.VentilatorNeed,
		VentilatorProb:       req.VentilatorProb,
		DialysisNeed:         req.DialysisNeed,
		LactateMmolL:         req.LactateMmolL,
		MeanArterialPressure: req.MeanArterialPressure,
		LosPredictionDays:    req.LosPredictionDays,
		RiskScore:            req.RiskScore,
		RecommendationScore:  req.RecommendationScore,
		NurseIntensity:       req.NurseIntensity,
		Uncertainty:          req.Uncertainty,
	}

	if err := h.repository.CreatePatient(patient); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "patients_pkey":
				h.errorResponse(w, r, "病人 ID 已存在")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建病人记录成功", patient)
}

// ImportPatients 上传 CSV 整表替换病人数据
// 模式校验不通过时整次导入失败，不会出现半新半旧的表
func (h *Handler) ImportPatients(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		h.errorResponse(w, r, "缺少上传文件")
		return
	}
	defer file.Close()

	patients, err := dataset.LoadPatients(file)
	if err != nil {
		var validationErr *dataset.ValidationError
		if errors.As(err, &validationErr) {
			h.errorResponse(w, r, validationErr.Error())
			return
		}
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.ReplacePatients(patients); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "导入病人表成功", map[string]int{"count": len(patients)})
}
