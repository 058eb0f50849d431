package handler

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/icu-allocator/backend/internal/dataset"
	"github.com/sysu-ecnc-dev/icu-allocator/backend/internal/domain"
)

func (h *Handler) GetAllBeds(w http.ResponseWriter, r *http.Request) {
	beds, err := h.repository.GetAllBeds()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取床位列表成功", beds)
}

func (h *Handler) CreateBed(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BedID               int64   `json:"bedID" validate:"required,min=1"`
		ICUType             string  `json:"icuType" validate:"required,oneof=cardiac neuro surgical medical mixed"`
		Specialty           string  `json:"specialty" validate:"required"`
		VentilatorAvailable bool    `json:"ventilatorAvailable"`
		NurseCapacity       float64 `json:"nurseCapacity" validate:"required,gt=0"`
		DialysisReady       bool    `json:"dialysisReady"`
		IsolationRoom       bool    `json:"isolationRoom"`
		AdvancedMonitoring  bool    `json:"advancedMonitoring"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	bed := &domain.Bed{
		ID:                  req.BedID,
		ICUType:             req.ICUType,
		Specialty:           req.Specialty,
		VentilatorAvailable: req.VentilatorAvailable,
		NurseCapacity:       req.NurseCapacity,
		DialysisReady:       req.DialysisReady,
		IsolationRoom:       req.IsolationRoom,
		AdvancedMonitoring:  req.AdvancedMonitoring,
	}

	if err := h.repository.CreateBed(bed); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "beds_pkey":
				h.errorResponse(w, r, "床位 ID 已存在")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建床位成功", bed)
}

// ImportBeds 上传 CSV 整表替换床位数据
func (h *Handler) ImportBeds(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		h.errorResponse(w, r, "缺少上传文件")
		return
	}
	defer file.Close()

	beds, err := dataset.LoadBeds(file)
	if err != nil {
		var validationErr *dataset.ValidationError
		if errors.As(err, &validationErr) {
			h.errorResponse(w, r, validationErr.Error())
			return
		}
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.ReplaceBeds(beds); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "导入床位表成功", map[string]int{"count": len(beds)})
}
