package utils

import (
	"fmt"

	"github.com/sysu-ecnc-dev/icu-allocator/backend/internal/domain"
)

// ValidatePatients 检查病人表的跨行约束
func ValidatePatients(patients []domain.Patient) error {
	seen := make(map[int64]bool, len(patients))
	for _, p := range patients {
		if seen[p.ID] {
			return fmt.Errorf("病人 ID %d 重复", p.ID)
		}
		seen[p.ID] = true

		if p.Uncertainty < 0 || p.Uncertainty > 1 {
			return fmt.Errorf("病人 %d 的不确定度必须在 [0,1] 之间", p.ID)
		}
		if p.VentilatorProb < 0 || p.VentilatorProb > 1 {
			return fmt.Errorf("病人 %d 的呼吸机概率必须在 [0,1] 之间", p.ID)
		}
	}
	return nil
}

// ValidateBeds 检查床位表的跨行约束
func ValidateBeds(beds []domain.Bed) error {
	seen := make(map[int64]bool, len(beds))
	for _, b := range beds {
		if seen[b.ID] {
			return fmt.Errorf("床位 ID %d 重复", b.ID)
		}
		seen[b.ID] = true

		if b.NurseCapacity <= 0 {
			return fmt.Errorf("床位 %d 的护理容量必须大于 0", b.ID)
		}
	}
	return nil
}

// ValidateAllocationParameters 检查遗传算法参数的合法性
func ValidateAllocationParameters(p *domain.AllocationParameters) error {
	if p.PopulationSize < 1 {
		return fmt.Errorf("种群大小必须至少为 1")
	}
	if p.Generations < 0 {
		return fmt.Errorf("迭代代数不能为负数")
	}
	if p.CrossoverRate < 0 || p.CrossoverRate > 1 {
		return fmt.Errorf("交叉概率必须在 [0,1] 之间")
	}
	if p.MutationRate < 0 || p.MutationRate > 1 {
		return fmt.Errorf("变异概率必须在 [0,1] 之间")
	}
	if p.TournamentSize < 1 {
		return fmt.Errorf("锦标赛大小必须至少为 1")
	}
	return nil
}
