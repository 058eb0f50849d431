package allocator

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/icu-allocator/backend/internal/domain"
)

func testParameters() *domain.AllocationParameters {
	return &domain.AllocationParameters{
		PopulationSize:    20,
		Generations:       30,
		CrossoverRate:     0.85,
		MutationRate:      0.25,
		TournamentSize:    3,
		SurvivalWeight:    0.55,
		PriorityWeight:    0.35,
		UtilizationWeight: 0.10,
	}
}

func testPatient(id int64, priority, survival float64, specialty string, vent, dial bool) domain.Patient {
	return domain.Patient{
		ID:             id,
		SpecialtyNeed:  specialty,
		VentilatorNeed: vent,
		DialysisNeed:   dial,
		NurseIntensity: 1.0,
		Fuzzy: domain.FuzzyResult{
			PriorityScore: priority,
			SurvivalScore: survival,
		},
	}
}

func testBed(id int64, specialty string, vent, dial bool) domain.Bed {
	return domain.Bed{
		ID:                  id,
		Specialty:           specialty,
		VentilatorAvailable: vent,
		DialysisReady:       dial,
		NurseCapacity:       4,
	}
}

func newRng() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func TestPriorityPoolOrdering(t *testing.T) {
	patients := []domain.Patient{
		testPatient(3, 0.5, 0.8, "cardio", false, false),
		testPatient(1, 0.9, 0.6, "cardio", false, false),
		testPatient(2, 0.5, 0.9, "cardio", false, false),
		testPatient(4, 0.5, 0.8, "cardio", false, false),
	}
	beds := []domain.Bed{testBed(1, "cardio", true, true)}

	a := New(testParameters(), patients, beds, newRng())

	// 优先级降序，其次生存分降序，完全相同时 ID 升序
	require.Equal(t, []int64{1, 2, 3, 4}, a.priorityPool)
}

func TestInitialChromosomeRespectsHardConstraints(t *testing.T) {
	patients := []domain.Patient{
		testPatient(1, 0.9, 0.8, "cardio", true, false),
		testPatient(2, 0.3, 0.7, "neuro", false, false),
	}
	beds := []domain.Bed{
		testBed(10, "cardio", false, false), // 没有呼吸机，不能收病人 1
		testBed(11, "cardio", true, false),
	}

	a := New(testParameters(), patients, beds, newRng())
	ch := a.initialChromosome()

	require.Equal(t, Chromosome{2, 1}, ch)
}

func TestInitialChromosomeLeavesBedVacantWhenNoCandidateFits(t *testing.T) {
	patients := []domain.Patient{
		testPatient(1, 0.9, 0.8, "cardio", true, false),
	}
	beds := []domain.Bed{
		testBed(10, "cardio", false, false),
	}

	a := New(testParameters(), patients, beds, newRng())
	ch := a.initialChromosome()

	require.Equal(t, Chromosome{Vacant}, ch)
}

func TestRepairRemovesDuplicatesAndFillsVacancies(t *testing.T) {
	patients := []domain.Patient{
		testPatient(1, 0.9, 0.8, "cardio", false, false),
		testPatient(2, 0.5, 0.7, "cardio", false, false),
		testPatient(3, 0.3, 0.6, "cardio", false, false),
	}
	beds := []domain.Bed{
		testBed(10, "cardio", true, true),
		testBed(11, "cardio", true, true),
		testBed(12, "cardio", true, true),
	}

	a := New(testParameters(), patients, beds, newRng())
	repaired := a.repair(Chromosome{2, 2, Vacant})

	// 保留首次出现的 2，重复位清空后由未出现的病人按优先级顺序补上
	require.Equal(t, int64(2), repaired[0])
	require.NotContains(t, repaired[1:], int64(2))
	for _, pid := range repaired {
		require.NotEqual(t, Vacant, pid)
	}

	seen := map[int64]bool{}
	for _, pid := range repaired {
		require.False(t, seen[pid], "repair must not leave duplicates")
		seen[pid] = true
	}
}

func TestRepairIsIdempotent(t *testing.T) {
	patients := []domain.Patient{
		testPatient(1, 0.9, 0.8, "cardio", true, false),
		testPatient(2, 0.5, 0.7, "neuro", false, true),
		testPatient(3, 0.3, 0.6, "cardio", false, false),
	}
	beds := []domain.Bed{
		testBed(10, "cardio", true, false),
		testBed(11, "neuro", false, true),
		testBed(12, "general", false, false),
	}

	a := New(testParameters(), patients, beds, newRng())

	corrupted := []Chromosome{
		{1, 1, 1},
		{Vacant, Vacant, Vacant},
		{3, 3, 2},
		{2, 1, 3},
	}
	for _, ch := range corrupted {
		once := a.repair(ch)
		twice := a.repair(once)
		require.Equal(t, once, twice)
	}
}

func TestEvaluatePenalizesDuplicates(t *testing.T) {
	patients := []domain.Patient{
		testPatient(1, 0.9, 0.8, "cardio", false, false),
	}
	beds := []domain.Bed{
		testBed(10, "cardio", true, true),
		testBed(11, "cardio", true, true),
	}

	a := New(testParameters(), patients, beds, newRng())
	_, metrics, conflicts := a.evaluate(Chromosome{1, 1})

	require.InDelta(t, 1.5, metrics.ConstraintPenalty, 1e-9)
	require.Contains(t, conflicts, "duplicate assignment for patient 1")
}

func TestEvaluatePenalizesUnknownPatient(t *testing.T) {
	patients := []domain.Patient{
		testPatient(1, 0.9, 0.8, "cardio", false, false),
	}
	beds := []domain.Bed{testBed(10, "cardio", true, true)}

	a := New(testParameters(), patients, beds, newRng())
	_, metrics, conflicts := a.evaluate(Chromosome{999})

	require.InDelta(t, 2.0, metrics.ConstraintPenalty, 1e-9)
	require.Contains(t, conflicts, "unknown patient 999")
}

func TestEvaluatePenalizesEquipmentShortageAndMismatch(t *testing.T) {
	patients := []domain.Patient{
		testPatient(1, 0.9, 0.8, "neuro", true, true),
	}
	beds := []domain.Bed{testBed(10, "cardio", false, false)}

	a := New(testParameters(), patients, beds, newRng())
	_, metrics, conflicts := a.evaluate(Chromosome{1})

	require.InDelta(t, 1.8, metrics.ConstraintPenalty, 1e-9) // 呼吸机 1.0 + 透析 0.8
	require.InDelta(t, 0.4, metrics.MismatchPenalty, 1e-9)
	require.Contains(t, conflicts, "specialty mismatch bed 10 (cardio) -> patient 1 (neuro)")
	require.Contains(t, conflicts, "ventilator shortage for patient 1")
	require.Contains(t, conflicts, "dialysis shortage for patient 1")
}

func TestEvaluateWorkloadPenalty(t *testing.T) {
	p := testPatient(1, 0.5, 0.5, "cardio", false, false)
	p.NurseIntensity = 6
	beds := []domain.Bed{testBed(10, "cardio", true, true)}

	a := New(testParameters(), []domain.Patient{p}, beds, newRng())
	_, metrics, _ := a.evaluate(Chromosome{1})

	// 护理需求 6 对容量 4，超载比例 0.5，罚分 0.5*2.5
	require.InDelta(t, 1.5, metrics.NurseRatio, 1e-9)
	require.InDelta(t, 1.25, metrics.WorkloadPenalty, 1e-9)
}

func TestRunIsDeterministicForSameSeed(t *testing.T) {
	patients := make([]domain.Patient, 0, 8)
	for i := int64(1); i <= 8; i++ {
		patients = append(patients, testPatient(i, float64(i)/10, 0.5+float64(i)/20, "cardio", i%3 == 0, false))
	}
	beds := []domain.Bed{
		testBed(10, "cardio", true, false),
		testBed(11, "neuro", true, true),
		testBed(12, "cardio", false, false),
		testBed(13, "general", true, false),
	}

	run := func() (Chromosome, float64) {
		a := New(testParameters(), patients, beds, rand.New(rand.NewSource(7)))
		best, _, _ := a.Run()
		return best, a.BestFitness()
	}

	best1, fitness1 := run()
	best2, fitness2 := run()

	require.Equal(t, best1, best2)
	require.InDelta(t, fitness1, fitness2, 1e-12)
}

func TestRunProducesValidChromosome(t *testing.T) {
	patients := make([]domain.Patient, 0, 10)
	for i := int64(1); i <= 10; i++ {
		patients = append(patients, testPatient(i, float64(i)/10, 0.6, "cardio", i%2 == 0, i%5 == 0))
	}
	beds := []domain.Bed{
		testBed(10, "cardio", true, true),
		testBed(11, "cardio", true, false),
		testBed(12, "neuro", false, false),
		testBed(13, "general", true, true),
	}

	a := New(testParameters(), patients, beds, newRng())
	best, metrics, _ := a.Run()

	require.Len(t, best, len(beds))
	require.NotNil(t, metrics)

	seen := map[int64]bool{}
	for _, pid := range best {
		if pid == Vacant {
			continue
		}
		require.Contains(t, a.lookup, pid)
		require.False(t, seen[pid], "best chromosome must not assign a patient twice")
		seen[pid] = true
	}
}

func TestRunWithNoPatients(t *testing.T) {
	beds := []domain.Bed{
		testBed(10, "cardio", true, true),
		testBed(11, "neuro", false, false),
	}

	a := New(testParameters(), nil, beds, newRng())
	best, metrics, conflicts := a.Run()

	require.Equal(t, Chromosome{Vacant, Vacant}, best)
	require.InDelta(t, 0, metrics.Utilization, 1e-9)
	require.Empty(t, conflicts)
}

func TestRunWithNoBeds(t *testing.T) {
	// 床位表为空是合法的退化输入：返回空分配而不是报错
	patients := []domain.Patient{
		testPatient(1, 0.9, 0.8, "cardio", false, false),
	}

	a := New(testParameters(), patients, nil, newRng())
	best, metrics, conflicts := a.Run()

	require.Empty(t, best)
	require.InDelta(t, 0, metrics.Utilization, 1e-9)
	require.Empty(t, conflicts)
	require.Empty(t, a.BuildAssignments(best))
}

func TestRunPairsEquipmentNeedsToMatchingBeds(t *testing.T) {
	// 需呼吸机的病人进带呼吸机的心内床、需透析的病人进可透析的肾内床，
	// 这是唯一零罚分且满床的排法
	patients := []domain.Patient{
		testPatient(1, 0.9, 0.8, "cardio", true, false),
		testPatient(2, 0.6, 0.7, "renal", false, true),
	}
	beds := []domain.Bed{
		testBed(10, "cardio", true, false),
		testBed(11, "renal", false, true),
	}

	a := New(testParameters(), patients, beds, newRng())
	best, metrics, conflicts := a.Run()

	require.Equal(t, Chromosome{1, 2}, best)
	require.InDelta(t, 1, metrics.Utilization, 1e-9)
	require.InDelta(t, 0, metrics.ConstraintPenalty, 1e-9)
	require.InDelta(t, 0, metrics.MismatchPenalty, 1e-9)
	require.Empty(t, conflicts)

	assignments := a.BuildAssignments(best)
	require.Equal(t, "specialty match; ventilator provided; priority 0.90", assignments[0].Reason)
	require.Equal(t, "specialty match; dialysis ready; priority 0.60", assignments[1].Reason)
}

func TestRunWithNoFeasiblePatientsLeavesAllBedsVacant(t *testing.T) {
	// 所有病人都需要呼吸机而没有任何床位可提供：全部留空，不产生硬约束罚分
	patients := []domain.Patient{
		testPatient(1, 0.9, 0.8, "cardio", true, false),
		testPatient(2, 0.7, 0.7, "neuro", true, false),
	}
	beds := []domain.Bed{
		testBed(10, "cardio", false, false),
		testBed(11, "neuro", false, false),
	}

	a := New(testParameters(), patients, beds, newRng())
	best, metrics, _ := a.Run()

	require.Equal(t, Chromosome{Vacant, Vacant}, best)
	require.InDelta(t, 0, metrics.ConstraintPenalty, 1e-9)
	require.InDelta(t, 0, metrics.Utilization, 1e-9)
}

func TestRunWithZeroGenerationsStillReturnsResult(t *testing.T) {
	parameters := testParameters()
	parameters.Generations = 0

	patients := []domain.Patient{testPatient(1, 0.9, 0.8, "cardio", false, false)}
	beds := []domain.Bed{testBed(10, "cardio", true, true)}

	a := New(parameters, patients, beds, newRng())
	best, metrics, _ := a.Run()

	require.Equal(t, Chromosome{1}, best)
	require.NotNil(t, metrics)
}

func TestRunPrefersConstraintFreeArrangement(t *testing.T) {
	// 病人 1 需要呼吸机，只有 11 号床能收；唯一零罚分的排法是 2->10, 1->11
	patients := []domain.Patient{
		testPatient(1, 0.9, 0.8, "cardio", true, false),
		testPatient(2, 0.8, 0.8, "neuro", false, false),
	}
	beds := []domain.Bed{
		testBed(10, "neuro", false, false),
		testBed(11, "cardio", true, false),
	}

	a := New(testParameters(), patients, beds, newRng())
	best, metrics, conflicts := a.Run()

	require.Equal(t, Chromosome{2, 1}, best)
	require.InDelta(t, 0, metrics.ConstraintPenalty, 1e-9)
	require.InDelta(t, 0, metrics.MismatchPenalty, 1e-9)
	require.Empty(t, conflicts)
	require.InDelta(t, 1, metrics.Utilization, 1e-9)
}

func TestBuildAssignments(t *testing.T) {
	patients := []domain.Patient{
		testPatient(1, 0.9, 0.8, "cardio", true, false),
	}
	beds := []domain.Bed{
		testBed(10, "cardio", true, false),
		testBed(11, "neuro", false, false),
	}

	a := New(testParameters(), patients, beds, newRng())
	assignments := a.BuildAssignments(Chromosome{1, Vacant})

	require.Len(t, assignments, 2)

	require.NotNil(t, assignments[0].AssignedPatient)
	require.Equal(t, int64(1), *assignments[0].AssignedPatient)
	require.Equal(t, "specialty match; ventilator provided; priority 0.90", assignments[0].Reason)

	require.Nil(t, assignments[1].AssignedPatient)
	require.Equal(t, "left vacant due to constraint conflicts", assignments[1].Reason)
}
