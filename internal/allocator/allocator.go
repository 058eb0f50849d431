package allocator

import (
	"math"
	"math/rand"
	"sort"

	"github.com/sysu-ecnc-dev/icu-allocator/backend/internal/domain"
)

// Allocator: 模糊分数 + 遗传搜索的混合床位分配器
// 病人与床位表在构造之后只读，所有随机性都来自显式传入的生成器，
// 因此相同的种子和输入必然得到完全相同的结果
type Allocator struct {
	parameters *domain.AllocationParameters
	patients   []domain.Patient
	beds       []domain.Bed
	rng        *rand.Rand

	lookup             map[int64]*domain.Patient
	priorityPool       []int64 // 病人 ID 按 (优先级, 生存分) 降序排列，贪心选择处处复用这个顺序
	totalNurseCapacity float64

	population []Chromosome

	bestChromosome Chromosome
	bestFitness    float64
	bestMetrics    *domain.AllocationMetrics
	bestConflicts  []string
}

// New 构造分配器，传入的病人必须已经过特征工程和模糊打分
func New(parameters *domain.AllocationParameters, patients []domain.Patient, beds []domain.Bed, rng *rand.Rand) *Allocator {
	a := &Allocator{
		parameters:  parameters,
		patients:    patients,
		beds:        beds,
		rng:         rng,
		lookup:      make(map[int64]*domain.Patient, len(patients)),
		bestFitness: math.Inf(-1),
	}

	for i := range patients {
		a.lookup[patients[i].ID] = &patients[i]
		a.priorityPool = append(a.priorityPool, patients[i].ID)
	}

	// 优先级池排序：优先级降序、生存分降序，ID 升序兜底保证可复现
	sort.Slice(a.priorityPool, func(i, j int) bool {
		pi := a.lookup[a.priorityPool[i]]
		pj := a.lookup[a.priorityPool[j]]
		if pi.Fuzzy.PriorityScore != pj.Fuzzy.PriorityScore {
			return pi.Fuzzy.PriorityScore > pj.Fuzzy.PriorityScore
		}
		if pi.Fuzzy.SurvivalScore != pj.Fuzzy.SurvivalScore {
			return pi.Fuzzy.SurvivalScore > pj.Fuzzy.SurvivalScore
		}
		return pi.ID < pj.ID
	})

	for _, bed := range beds {
		a.totalNurseCapacity += bed.NurseCapacity
	}

	return a
}

// Run 执行遗传搜索，返回全程见过的最优染色体及其指标和冲突列表
// 没有提前收敛终止，代数预算就是唯一的停止条件
func (a *Allocator) Run() (Chromosome, *domain.AllocationMetrics, []string) {
	popSize := int(a.parameters.PopulationSize)
	if popSize < 1 {
		popSize = 1
	}

	a.population = make([]Chromosome, popSize)
	for i := range a.population {
		a.population[i] = a.initialChromosome()
	}

	for gen := 0; gen < int(a.parameters.Generations); gen++ {
		fitnesses := make([]float64, len(a.population))
		for i, ch := range a.population {
			fitness, metrics, conflicts := a.evaluate(ch)
			fitnesses[i] = fitness

			// 跟踪全局最优，而不是每代精英
			if fitness > a.bestFitness {
				a.bestFitness = fitness
				a.bestChromosome = ch.clone()
				a.bestMetrics = metrics
				a.bestConflicts = conflicts
			}
		}

		// 完全代际替换
		newPopulation := make([]Chromosome, 0, popSize)
		for len(newPopulation) < popSize {
			parent1 := a.tournamentSelect(fitnesses)
			parent2 := a.tournamentSelect(fitnesses)

			child1 := parent1.clone()
			child2 := parent2.clone()
			if a.rng.Float64() < a.parameters.CrossoverRate {
				child1, child2 = a.uniformCrossover(parent1, parent2)
			}
			if a.rng.Float64() < a.parameters.MutationRate {
				child1 = a.mutate(child1)
			}
			if a.rng.Float64() < a.parameters.MutationRate {
				child2 = a.mutate(child2)
			}
			newPopulation = append(newPopulation, child1, child2)
		}
		a.population = newPopulation[:popSize]
	}

	// 代数为零时也要有结果可返回
	if a.bestMetrics == nil {
		ch := a.initialChromosome()
		fitness, metrics, conflicts := a.evaluate(ch)
		a.bestFitness = fitness
		a.bestChromosome = ch
		a.bestMetrics = metrics
		a.bestConflicts = conflicts
	}

	return a.bestChromosome, a.bestMetrics, a.bestConflicts
}

// BestFitness 返回目前跟踪到的最优适应度
func (a *Allocator) BestFitness() float64 {
	return a.bestFitness
}
