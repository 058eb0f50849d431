package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/icu-allocator/backend/internal/domain"
)

func TestValidatePatients(t *testing.T) {
	valid := []domain.Patient{
		{ID: 1, Uncertainty: 0.1, VentilatorProb: 0.5},
		{ID: 2, Uncertainty: 0.2, VentilatorProb: 0.9},
	}
	require.NoError(t, ValidatePatients(valid))

	duplicated := []domain.Patient{{ID: 1}, {ID: 1}}
	require.Error(t, ValidatePatients(duplicated))

	badUncertainty := []domain.Patient{{ID: 1, Uncertainty: 1.2}}
	require.Error(t, ValidatePatients(badUncertainty))

	badProb := []domain.Patient{{ID: 1, VentilatorProb: -0.1}}
	require.Error(t, ValidatePatients(badProb))
}

func TestValidateBeds(t *testing.T) {
	valid := []domain.Bed{
		{ID: 1, NurseCapacity: 4},
		{ID: 2, NurseCapacity: 3.5},
	}
	require.NoError(t, ValidateBeds(valid))

	duplicated := []domain.Bed{{ID: 1, NurseCapacity: 4}, {ID: 1, NurseCapacity: 4}}
	require.Error(t, ValidateBeds(duplicated))

	badCapacity := []domain.Bed{{ID: 1, NurseCapacity: 0}}
	require.Error(t, ValidateBeds(badCapacity))
}

func TestValidateAllocationParameters(t *testing.T) {
	valid := &domain.AllocationParameters{
		PopulationSize: 80,
		Generations:    120,
		CrossoverRate:  0.85,
		MutationRate:   0.25,
		TournamentSize: 3,
	}
	require.NoError(t, ValidateAllocationParameters(valid))

	cases := []func(p *domain.AllocationParameters){
		func(p *domain.AllocationParameters) { p.PopulationSize = 0 },
		func(p *domain.AllocationParameters) { p.Generations = -1 },
		func(p *domain.AllocationParameters) { p.CrossoverRate = 1.2 },
		func(p *domain.AllocationParameters) { p.MutationRate = -0.1 },
		func(p *domain.AllocationParameters) { p.TournamentSize = 0 },
	}
	for _, corrupt := range cases {
		p := *valid
		corrupt(&p)
		require.Error(t, ValidateAllocationParameters(&p))
	}
}
