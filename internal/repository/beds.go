package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/icu-allocator/backend/internal/domain"
)

func (r *Repository) GetAllBeds() ([]domain.Bed, error) {
	query := `
		SELECT bed_id, icu_type, specialty, ventilator_available, nurse_capacity,
			dialysis_ready, isolation_room, advanced_monitoring, created_at, version
		FROM beds ORDER BY bed_id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	beds := make([]domain.Bed, 0)
	for rows.Next() {
		b := domain.Bed{}
		dst := []any{
			&b.ID, &b.ICUType, &b.Specialty, &b.VentilatorAvailable, &b.NurseCapacity,
			&b.DialysisReady, &b.IsolationRoom, &b.AdvancedMonitoring, &b.CreatedAt, &b.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		beds = append(beds, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return beds, nil
}

func (r *Repository) CreateBed(b *domain.Bed) error {
	query := `
		INSERT INTO beds (bed_id, icu_type, specialty, ventilator_available, nurse_capacity,
			dialysis_ready, isolation_room, advanced_monitoring)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{b.ID, b.ICUType, b.Specialty, b.VentilatorAvailable, b.NurseCapacity, b.DialysisReady, b.IsolationRoom, b.AdvancedMonitoring}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&b.CreatedAt, &b.Version); err != nil {
		return err
	}

	return nil
}

// ReplaceBeds 在一个事务中用新的床位表整体替换旧表
func (r *Repository) ReplaceBeds(beds []domain.Bed) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM beds`); err != nil {
		return err
	}

	query := `
		INSERT INTO beds (bed_id, icu_type, specialty, ventilator_available, nurse_capacity,
			dialysis_ready, isolation_room, advanced_monitoring)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, b := range beds {
		args := []any{b.ID, b.ICUType, b.Specialty, b.VentilatorAvailable, b.NurseCapacity, b.DialysisReady, b.IsolationRoom, b.AdvancedMonitoring}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	return tx.Commit()
}
