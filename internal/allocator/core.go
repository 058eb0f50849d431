package allocator

import (
	"fmt"
	"math"

	"github.com/sysu-ecnc-dev/icu-allocator/backend/internal/domain"
)

// initialChromosome 用贪心方式初始化一条染色体：
// 按输入顺序遍历床位，从优先级池中选出第一个硬约束满足的病人，选不出就留空
func (a *Allocator) initialChromosome() Chromosome {
	ch := make(Chromosome, len(a.beds))
	for i := range ch {
		ch[i] = Vacant
	}

	available := make([]int64, len(a.priorityPool))
	copy(available, a.priorityPool)

	for bedIdx := range a.beds {
		pid, ok := a.selectCandidate(&a.beds[bedIdx], available)
		if ok {
			ch[bedIdx] = pid
			available = removeID(available, pid)
		}
	}
	return ch
}

// selectCandidate 在候选列表中按序扫描，返回第一个硬性设备需求（呼吸机、透析）
// 能被该床位满足的病人，专科不匹配不是硬约束，只在适应度里算软成本
func (a *Allocator) selectCandidate(bed *domain.Bed, available []int64) (int64, bool) {
	for _, pid := range available {
		patient := a.lookup[pid]
		if patient.VentilatorNeed && !bed.VentilatorAvailable {
			continue
		}
		if patient.DialysisNeed && !bed.DialysisReady {
			continue
		}
		return pid, true
	}
	return Vacant, false
}

// repair 恢复染色体的合法性，必须幂等：
// (a) 从左到右保留每个病人 ID 的首次出现，后续重复清成空位
// (b) 对每个空位用同样的贪心硬约束扫描补一个未出现的病人，补不上就留空
// 交叉和变异的输出都必须先过一遍 repair 才能回到种群
func (a *Allocator) repair(ch Chromosome) Chromosome {
	out := ch.clone()

	available := make([]int64, 0, len(a.priorityPool))
	for _, pid := range a.priorityPool {
		if !out.contains(pid) {
			available = append(available, pid)
		}
	}

	seen := make(map[int64]bool, len(out))
	for i, pid := range out {
		if pid == Vacant {
			continue
		}
		if seen[pid] {
			out[i] = Vacant
		} else {
			seen[pid] = true
		}
	}

	for i, pid := range out {
		if pid != Vacant {
			continue
		}
		replacement, ok := a.selectCandidate(&a.beds[i], available)
		if ok {
			out[i] = replacement
			available = removeID(available, replacement)
		}
	}
	return out
}

// evaluate 单趟扫描染色体，累计生存、优先级、护理强度和各项罚分
// 冲突字符串按评估顺序生成，报告的可复现性依赖这个顺序
func (a *Allocator) evaluate(ch Chromosome) (float64, *domain.AllocationMetrics, []string) {
	assigned := make(map[int64]bool)
	specialtyCounts := make(map[string]int)
	conflicts := []string{}

	var survivalSum, prioritySum, nurseIntensitySum float64
	var occupancy int
	var constraintPenalty, mismatchPenalty float64

	for bedIdx, pid := range ch {
		if pid == Vacant {
			continue
		}
		// 重复与未知 ID 在修复正确的前提下不应出现，但出现了也必须照常计分，
		// 搜索靠选择压力自愈而不是中断
		if assigned[pid] {
			constraintPenalty += 1.5
			conflicts = append(conflicts, fmt.Sprintf("duplicate assignment for patient %d", pid))
			continue
		}
		patient, exists := a.lookup[pid]
		if !exists {
			constraintPenalty += 2.0
			conflicts = append(conflicts, fmt.Sprintf("unknown patient %d", pid))
			continue
		}

		bed := &a.beds[bedIdx]
		assigned[pid] = true
		occupancy++
		survivalSum += patient.Fuzzy.SurvivalScore
		prioritySum += patient.Fuzzy.PriorityScore
		nurseIntensitySum += patient.NurseIntensity

		if patient.SpecialtyNeed != bed.Specialty {
			mismatchPenalty += 0.4
			conflicts = append(conflicts, fmt.Sprintf(
				"specialty mismatch bed %d (%s) -> patient %d (%s)",
				bed.ID, bed.Specialty, pid, patient.SpecialtyNeed,
			))
		}
		if patient.VentilatorNeed && !bed.VentilatorAvailable {
			constraintPenalty += 1.0
			conflicts = append(conflicts, fmt.Sprintf("ventilator shortage for patient %d", pid))
		}
		if patient.DialysisNeed && !bed.DialysisReady {
			constraintPenalty += 0.8
			conflicts = append(conflicts, fmt.Sprintf("dialysis shortage for patient %d", pid))
		}

		specialtyCounts[bed.Specialty]++
	}

	bedCount := len(a.beds)
	utilization := float64(occupancy) / float64(max(bedCount, 1))
	survivalAvg := survivalSum / float64(max(occupancy, 1))
	priorityAvg := prioritySum / float64(max(occupancy, 1))

	nurseRatio := nurseIntensitySum / math.Max(a.totalNurseCapacity, 1e-6)
	workloadPenalty := math.Max(0, nurseRatio-1) * 2.5

	// 公平性罚分：各专科分配数的变异系数
	fairnessPenalty := 0.0
	if len(specialtyCounts) > 0 {
		var sum float64
		for _, cnt := range specialtyCounts {
			sum += float64(cnt)
		}
		mean := sum / float64(len(specialtyCounts))

		var variance float64
		for _, cnt := range specialtyCounts {
			variance += math.Pow(float64(cnt)-mean, 2)
		}
		variance /= float64(len(specialtyCounts))

		fairnessPenalty = math.Sqrt(variance) / math.Max(mean, 1e-6) * 0.2
	}

	fitness := a.parameters.SurvivalWeight*survivalAvg +
		a.parameters.PriorityWeight*priorityAvg +
		a.parameters.UtilizationWeight*utilization -
		(constraintPenalty + mismatchPenalty + workloadPenalty + fairnessPenalty)

	metrics := &domain.AllocationMetrics{
		SurvivalAvg:       survivalAvg,
		PriorityAvg:       priorityAvg,
		Utilization:       utilization,
		NurseRatio:        nurseRatio,
		ConstraintPenalty: constraintPenalty,
		MismatchPenalty:   mismatchPenalty,
		WorkloadPenalty:   workloadPenalty,
		FairnessPenalty:   fairnessPenalty,
	}
	return fitness, metrics, conflicts
}

// tournamentSelect 锦标赛选择：不放回地抽取 tournamentSize 个个体，取适应度最高者
func (a *Allocator) tournamentSelect(fitnesses []float64) Chromosome {
	k := int(a.parameters.TournamentSize)
	if k < 1 {
		k = 1
	}
	if k > len(a.population) {
		k = len(a.population)
	}

	perm := a.rng.Perm(len(a.population))
	bestIdx := perm[0]
	for _, idx := range perm[1:k] {
		if fitnesses[idx] > fitnesses[bestIdx] {
			bestIdx = idx
		}
	}
	return a.population[bestIdx]
}

// uniformCrossover 均匀交叉：每个基因独立地以 0.5 概率决定来自哪个父本
func (a *Allocator) uniformCrossover(parent1, parent2 Chromosome) (Chromosome, Chromosome) {
	child1 := make(Chromosome, len(parent1))
	child2 := make(Chromosome, len(parent2))

	for i := range parent1 {
		if a.rng.Float64() < 0.5 {
			child1[i] = parent1[i]
			child2[i] = parent2[i]
		} else {
			child1[i] = parent2[i]
			child2[i] = parent1[i]
		}
	}
	return a.repair(child1), a.repair(child2)
}

// mutate 变异：一半概率交换两个随机槽位，否则把一个随机槽位换成当前未使用的病人
func (a *Allocator) mutate(ch Chromosome) Chromosome {
	out := ch.clone()
	n := len(out)
	if n == 0 {
		return out
	}

	if a.rng.Float64() < 0.5 {
		if n >= 2 {
			i := a.rng.Intn(n)
			j := a.rng.Intn(n - 1)
			if j >= i {
				j++
			}
			out[i], out[j] = out[j], out[i]
		}
	} else {
		idx := a.rng.Intn(n)
		unused := make([]int64, 0, len(a.priorityPool))
		for _, pid := range a.priorityPool {
			if !out.contains(pid) {
				unused = append(unused, pid)
			}
		}
		if len(unused) > 0 {
			out[idx] = unused[a.rng.Intn(len(unused))]
		}
	}
	return a.repair(out)
}

func removeID(ids []int64, pid int64) []int64 {
	for i, v := range ids {
		if v == pid {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
