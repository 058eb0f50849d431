package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/icu-allocator/backend/internal/domain"
)

const patientColumns = `
	patient_id, age, sex, weight_kg, comorbidity_count, charlson_index,
	vitals_score, sofa_score, apache_ii_score, diagnosis_group, specialty_need,
	admission_type, ventilator_need, ventilator_probability, dialysis_need,
	lactate_mmol_l, mean_arterial_pressure, los_prediction_days, risk_score,
	recommendation_score, nurse_intensity, uncertainty, created_at, version
`

func scanPatient(scan func(...any) error) (*domain.Patient, error) {
	p := &domain.Patient{}
	dst := []any{
		&p.ID, &p.Age, &p.Sex, &p.WeightKg, &p.ComorbidityCount, &p.CharlsonIndex,
		&p.VitalsScore, &p.SofaScore, &p.ApacheIIScore, &p.DiagnosisGroup, &p.SpecialtyNeed,
		&p.AdmissionType, &p.VentilatorNeed, &p.VentilatorProb, &p.DialysisNeed,
		&p.LactateMmolL, &p.MeanArterialPressure, &p.LosPredictionDays, &p.RiskScore,
		&p.RecommendationScore, &p.NurseIntensity, &p.Uncertainty, &p.CreatedAt, &p.Version,
	}
	if err := scan(dst...); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *Repository) GetAllPatients() ([]domain.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients ORDER BY patient_id`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	patients := make([]domain.Patient, 0)
	for rows.Next() {
		p, err := scanPatient(rows.Scan)
		if err != nil {
			return nil, err
		}
		patients = append(patients, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return patients, nil
}

func (r *Repository) CreatePatient(p *domain.Patient) error {
	query := `
		INSERT INTO patients (
			patient_id, age, sex, weight_kg, comorbidity_count, charlson_index,
			vitals_score, sofa_score, apache_ii_score, diagnosis_group, specialty_need,
			admission_type, ventilator_need, ventilator_probability, dialysis_need,
			lactate_mmol_l, mean_arterial_pressure, los_prediction_days, risk_score,
			recommendation_score, nurse_intensity, uncertainty
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{
		p.ID, p.Age, p.Sex, p.WeightKg, p.ComorbidityCount, p.CharlsonIndex,
		p.VitalsScore, p.SofaScore, p.ApacheIIScore, p.DiagnosisGroup, p.SpecialtyNeed,
		p.AdmissionType, p.VentilatorNeed, p.VentilatorProb, p.DialysisNeed,
		p.LactateMmolL, p.MeanArterialPressure, p.LosPredictionDays, p.RiskScore,
		p.RecommendationScore, p.NurseIntensity, p.Uncertainty,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&p.CreatedAt, &p.Version); err != nil {
		return err
	}

	return nil
}

// ReplacePatients 在一个事务中用新的病人表整体替换旧表
// 导入 CSV 时使用，保证不会出现半新半旧的表
func (r *Repository) ReplacePatients(patients []domain.Patient) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM patients`); err != nil {
		return err
	}

	query := `
		INSERT INTO patients (
			patient_id, age, sex, weight_kg, comorbidity_count, charlson_index,
			vitals_score, sofa_score, apache_ii_score, diagnosis_group, specialty_need,
			admission_type, ventilator_need, ventilator_probability, dialysis_need,
			lactate_mmol_l, mean_arterial_pressure, los_prediction_days, risk_score,
			recommendation_score, nurse_intensity, uncertainty
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	`

	for _, p := range patients {
		args := []any{
			p.ID, p.Age, p.Sex, p.WeightKg, p.ComorbidityCount, p.CharlsonIndex,
			p.VitalsScore, p.SofaScore, p.ApacheIIScore, p.DiagnosisGroup, p.SpecialtyNeed,
			p.AdmissionType, p.VentilatorNeed, p.VentilatorProb, p.DialysisNeed,
			p.LactateMmolL, p.MeanArterialPressure, p.LosPredictionDays, p.RiskScore,
			p.RecommendationScore, p.NurseIntensity, p.Uncertainty,
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	return tx.Commit()
}
