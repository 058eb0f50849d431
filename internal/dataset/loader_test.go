package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const patientHeader = "patient_id,age,sex,weight_kg,comorbidity_count,charlson_index," +
	"vitals_score,sofa_score,apache_ii_score,diagnosis_group,specialty_need,admission_type," +
	"ventilator_need,ventilator_probability,dialysis_need,lactate_mmol_l,mean_arterial_pressure," +
	"los_prediction_days,risk_score,recommendation_score,nurse_intensity,uncertainty"

const patientRow = "1,67,M,78.5,2,4.6,7.2,9.5,24,sepsis,general,emergency," +
	"1,0.55,0,2.4,68,6.5,0.62,0.58,1.35,0.12"

const bedHeader = "bed_id,icu_type,specialty,ventilator_available,nurse_capacity," +
	"dialysis_ready,isolation_room,advanced_monitoring"

func TestLoadPatients(t *testing.T) {
	csv := patientHeader + "\n" + patientRow + "\n"

	patients, err := LoadPatients(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, patients, 1)

	p := patients[0]
	require.Equal(t, int64(1), p.ID)
	require.Equal(t, int32(67), p.Age)
	require.Equal(t, "M", p.Sex)
	require.True(t, p.VentilatorNeed)
	require.False(t, p.DialysisNeed)
	require.InDelta(t, 9.5, p.SofaScore, 1e-9)
	require.InDelta(t, 0.12, p.Uncertainty, 1e-9)
	require.Equal(t, "general", p.SpecialtyNeed)
}

func TestLoadPatientsAcceptsShuffledColumns(t *testing.T) {
	// 列顺序不限，按列名索引
	csv := "uncertainty," + patientHeader[:len(patientHeader)-len(",uncertainty")] + "\n" +
		"0.12," + patientRow[:len(patientRow)-len(",0.12")] + "\n"

	patients, err := LoadPatients(strings.NewReader(csv))
	require.NoError(t, err)
	require.InDelta(t, 0.12, patients[0].Uncertainty, 1e-9)
	require.Equal(t, int64(1), patients[0].ID)
}

func TestLoadPatientsMissingColumn(t *testing.T) {
	csv := strings.Replace(patientHeader, "sofa_score", "sofa", 1) + "\n"

	_, err := LoadPatients(strings.NewReader(csv))

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "patients", validationErr.Table)
	require.Equal(t, "sofa_score", validationErr.Column)
	require.Equal(t, 0, validationErr.Row)
}

func TestLoadPatientsBadNumber(t *testing.T) {
	badRow := strings.Replace(patientRow, "9.5", "high", 1)
	csv := patientHeader + "\n" + badRow + "\n"

	_, err := LoadPatients(strings.NewReader(csv))

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "sofa_score", validationErr.Column)
	require.Equal(t, 1, validationErr.Row)
}

func TestLoadPatientsBadBool(t *testing.T) {
	badRow := strings.Replace(patientRow, ",1,0.55,", ",yes,0.55,", 1)
	csv := patientHeader + "\n" + badRow + "\n"

	_, err := LoadPatients(strings.NewReader(csv))

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "ventilator_need", validationErr.Column)
}

func TestLoadPatientsRejectsDuplicateIDs(t *testing.T) {
	csv := patientHeader + "\n" + patientRow + "\n" + patientRow + "\n"

	_, err := LoadPatients(strings.NewReader(csv))
	require.Error(t, err)
}

func TestLoadPatientsEmptyFile(t *testing.T) {
	_, err := LoadPatients(strings.NewReader(""))

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestLoadBeds(t *testing.T) {
	csv := bedHeader + "\n" +
		"1,medical,general,1,4.2,0,1,true\n" +
		"2,cardiac,cardio,true,5.0,1,0,1\n"

	beds, err := LoadBeds(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, beds, 2)

	require.Equal(t, int64(1), beds[0].ID)
	require.True(t, beds[0].VentilatorAvailable)
	require.False(t, beds[0].DialysisReady)
	require.True(t, beds[0].IsolationRoom)
	require.True(t, beds[0].AdvancedMonitoring)
	require.InDelta(t, 4.2, beds[0].NurseCapacity, 1e-9)

	require.True(t, beds[1].VentilatorAvailable)
	require.True(t, beds[1].DialysisReady)
}

func TestLoadBedsRejectsNonPositiveNurseCapacity(t *testing.T) {
	csv := bedHeader + "\n" + "1,medical,general,1,0,0,0,1\n"

	_, err := LoadBeds(strings.NewReader(csv))
	require.Error(t, err)
}

func TestLoadBedsDuplicateHeaderColumn(t *testing.T) {
	csv := bedHeader + ",bed_id\n"

	_, err := LoadBeds(strings.NewReader(csv))

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "bed_id", validationErr.Column)
}
