package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sysu-ecnc-dev/icu-allocator/backend/internal/domain"
)

// InsertAllocationRun 持久化一次优化运行，参数、分配结果和报告存成 jsonb
func (r *Repository) InsertAllocationRun(run *domain.AllocationRun) error {
	parameters, err := json.Marshal(run.Parameters)
	if err != nil {
		return err
	}
	assignments, err := json.Marshal(run.Assignments)
	if err != nil {
		return err
	}
	report, err := json.Marshal(run.Report)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO allocation_runs (seed, fitness, parameters, assignments, report)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{run.Seed, run.Fitness, parameters, assignments, report}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&run.ID, &run.CreatedAt, &run.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) scanAllocationRun(scan func(...any) error) (*domain.AllocationRun, error) {
	run := &domain.AllocationRun{}
	var parameters, assignments, report []byte

	dst := []any{&run.ID, &run.Seed, &run.Fitness, &parameters, &assignments, &report, &run.CreatedAt, &run.Version}
	if err := scan(dst...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(parameters, &run.Parameters); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(assignments, &run.Assignments); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(report, &run.Report); err != nil {
		return nil, err
	}

	return run, nil
}

func (r *Repository) GetAllocationRunByID(id int64) (*domain.AllocationRun, error) {
	query := `
		SELECT id, seed, fitness, parameters, assignments, report, created_at, version
		FROM allocation_runs WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return r.scanAllocationRun(r.dbpool.QueryRowContext(ctx, query, id).Scan)
}

// GetLatestAllocationRun 返回最近一次运行
func (r *Repository) GetLatestAllocationRun() (*domain.AllocationRun, error) {
	query := `
		SELECT id, seed, fitness, parameters, assignments, report, created_at, version
		FROM allocation_runs ORDER BY created_at DESC, id DESC LIMIT 1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return r.scanAllocationRun(r.dbpool.QueryRowContext(ctx, query).Scan)
}

// ListAllocationRuns 返回运行的摘要列表，不带大字段
func (r *Repository) ListAllocationRuns(limit int) ([]*domain.AllocationRun, error) {
	query := `
		SELECT id, seed, fitness, parameters, created_at, version
		FROM allocation_runs ORDER BY created_at DESC, id DESC LIMIT $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]*domain.AllocationRun, 0)
	for rows.Next() {
		run := &domain.AllocationRun{}
		var parameters []byte

		dst := []any{&run.ID, &run.Seed, &run.Fitness, &parameters, &run.CreatedAt, &run.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(parameters, &run.Parameters); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}
