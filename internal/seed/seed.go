package seed

import (
	"log/slog"

	"github.com/sysu-ecnc-dev/icu-allocator/backend/internal/dataset"
	"github.com/sysu-ecnc-dev/icu-allocator/backend/internal/repository"
)

// SeedRealData 从本地 CSV 导入真实病区数据，整表替换现有记录
// 两张表分别导入，任何一张校验失败则跳过那张表
func SeedRealData(r *repository.Repository) {
	patients, err := dataset.LoadPatientsFile("./internal/seed/data/patients.csv")
	if err != nil {
		slog.Error("读取病人表失败", "error", err)
	} else {
		if err := r.ReplacePatients(patients); err != nil {
			slog.Error("写入病人表失败", "error", err)
		} else {
			slog.Info("导入病人表成功", "count", len(patients))
		}
	}

	beds, err := dataset.LoadBedsFile("./internal/seed/data/beds.csv")
	if err != nil {
		slog.Error("读取床位表失败", "error", err)
		return
	}
	if err := r.ReplaceBeds(beds); err != nil {
		slog.Error("写入床位表失败", "error", err)
		return
	}
	slog.Info("导入床位表成功", "count", len(beds))
}
