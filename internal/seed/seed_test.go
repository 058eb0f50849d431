package seed

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/icu-allocator/backend/internal/dataset"
)

// 随仓库发布的真实数据 CSV 必须能通过模式校验
func TestShippedPatientsFixtureLoads(t *testing.T) {
	patients, err := dataset.LoadPatientsFile("data/patients.csv")
	require.NoError(t, err)
	require.NotEmpty(t, patients)
}

func TestShippedBedsFixtureLoads(t *testing.T) {
	beds, err := dataset.LoadBedsFile("data/beds.csv")
	require.NoError(t, err)
	require.NotEmpty(t, beds)
}
