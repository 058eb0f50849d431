package dataset

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGeneratePatientsDeterministic(t *testing.T) {
	first := GeneratePatients(rand.New(rand.NewSource(99)), 50)
	second := GeneratePatients(rand.New(rand.NewSource(99)), 50)

	require.Equal(t, first, second)
}

func TestGeneratePatientsWithinBounds(t *testing.T) {
	patients := GeneratePatients(rand.New(rand.NewSource(1)), 200)
	require.Len(t, patients, 200)

	seen := map[int64]bool{}
	for _, p := range patients {
		require.False(t, seen[p.ID])
		seen[p.ID] = true

		require.GreaterOrEqual(t, p.Age, int32(18))
		require.LessOrEqual(t, p.Age, int32(95))
		require.GreaterOrEqual(t, p.SofaScore, 0.0)
		require.LessOrEqual(t, p.SofaScore, 20.0)
		require.GreaterOrEqual(t, p.VentilatorProb, 0.0)
		require.LessOrEqual(t, p.VentilatorProb, 1.0)
		require.GreaterOrEqual(t, p.Uncertainty, 0.05)
		require.LessOrEqual(t, p.Uncertainty, 0.22)
		require.GreaterOrEqual(t, p.NurseIntensity, 0.7)
		require.LessOrEqual(t, p.NurseIntensity, 2.2)
		require.NotEmpty(t, p.SpecialtyNeed)
		require.NotEmpty(t, p.DiagnosisGroup)
	}
}

func TestGenerateBedsWithinBounds(t *testing.T) {
	beds := GenerateBeds(rand.New(rand.NewSource(1)), 40)
	require.Len(t, beds, 40)

	seen := map[int64]bool{}
	for _, b := range beds {
		require.False(t, seen[b.ID])
		seen[b.ID] = true

		require.Greater(t, b.NurseCapacity, 0.0)
		require.NotEmpty(t, b.Specialty)
		require.NotEmpty(t, b.ICUType)
		require.True(t, b.AdvancedMonitoring)
	}
}

func TestDescribe(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	patients := GeneratePatients(rng, 12)
	beds := GenerateBeds(rng, 6)

	summary := Describe(patients, beds)
	require.Contains(t, summary, "12 名病人")
	require.Contains(t, summary, "6 张床位")
}
