package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/storeops-dev/shift-scheduler/backend/internal/domain"
)

func (r *Repository) GetShiftPlan(tenantID int64, storeID int64, year int, month int, planType domain.PlanType) (*domain.ShiftPlan, error) {
	query := `
		SELECT id, plan_code, plan_name, period_start, period_end, status, created_at, version
		FROM shift_plans
		WHERE tenant_id = $1 AND store_id = $2 AND plan_year = $3 AND plan_month = $4 AND plan_type = $5
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	plan := &domain.ShiftPlan{
		TenantID:  tenantID,
		StoreID:   storeID,
		PlanYear:  year,
		PlanMonth: month,
		PlanType:  planType,
	}

	dst := []any{&plan.ID, &plan.PlanCode, &plan.PlanName, &plan.PeriodStart, &plan.PeriodEnd, &plan.Status, &plan.CreatedAt, &plan.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, tenantID, storeID, year, month, planType).Scan(dst...); err != nil {
		return nil, err
	}

	return plan, nil
}

func (r *Repository) GetShiftPlanByID(id int64) (*domain.ShiftPlan, error) {
	query := `
		SELECT tenant_id, store_id, plan_year, plan_month, plan_code, plan_name, period_start, period_end, plan_type, status, created_at, version
		FROM shift_plans
		WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	plan := &domain.ShiftPlan{
		ID: id,
	}

	dst := []any{&plan.TenantID, &plan.StoreID, &plan.PlanYear, &plan.PlanMonth, &plan.PlanCode, &plan.PlanName, &plan.PeriodStart, &plan.PeriodEnd, &plan.PlanType, &plan.Status, &plan.CreatedAt, &plan.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return plan, nil
}

func (r *Repository) GetShiftPlansByMonth(tenantID int64, year int, month int) ([]*domain.ShiftPlan, error) {
	query := `
		SELECT id, tenant_id, store_id, plan_year, plan_month, plan_code, plan_name, period_start, period_end, plan_type, status, created_at, version
		FROM shift_plans
		WHERE tenant_id = $1 AND plan_year = $2 AND plan_month = $3
		ORDER BY store_id, plan_type
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, tenantID, year, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := make([]*domain.ShiftPlan, 0)
	for rows.Next() {
		plan := &domain.ShiftPlan{}
		dst := []any{&plan.ID, &plan.TenantID, &plan.StoreID, &plan.PlanYear, &plan.PlanMonth, &plan.PlanCode, &plan.PlanName, &plan.PeriodStart, &plan.PeriodEnd, &plan.PlanType, &plan.Status, &plan.CreatedAt, &plan.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return plans, nil
}

// CreateShiftPlanWithShifts 在一个事务中插入计划和它的所有班次
// 同一门店同一月份已经存在第一案时，唯一索引会使插入失败，调用方需要改用替换模式
func (r *Repository) CreateShiftPlanWithShifts(plan *domain.ShiftPlan, shifts []*domain.Shift) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := insertShiftPlanTx(ctx, tx, plan); err != nil {
		return err
	}
	if err := insertShiftsTx(ctx, tx, plan.ID, shifts); err != nil {
		return err
	}

	return tx.Commit()
}

// ReplaceShiftPlanWithShifts 在一个事务中先删除同键的旧计划（连同班次）再插入新计划
// 删除和插入在同一个事务里提交，并发的读不会观察到删了旧数据但还没插入新数据的中间状态
func (r *Repository) ReplaceShiftPlanWithShifts(plan *domain.ShiftPlan, shifts []*domain.Shift) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// 先删除旧计划的班次，再删除旧计划本身
	query := `
		DELETE FROM shifts
		WHERE plan_id IN (
			SELECT id FROM shift_plans
			WHERE tenant_id = $1 AND store_id = $2 AND plan_year = $3 AND plan_month = $4 AND plan_type = $5
		)
	`
	args := []any{plan.TenantID, plan.StoreID, plan.PlanYear, plan.PlanMonth, plan.PlanType}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	query = `
		DELETE FROM shift_plans
		WHERE tenant_id = $1 AND store_id = $2 AND plan_year = $3 AND plan_month = $4 AND plan_type = $5
	`
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	if err := insertShiftPlanTx(ctx, tx, plan); err != nil {
		return err
	}
	if err := insertShiftsTx(ctx, tx, plan.ID, shifts); err != nil {
		return err
	}

	return tx.Commit()
}

func insertShiftPlanTx(ctx context.Context, tx *sql.Tx, plan *domain.ShiftPlan) error {
	query := `
		INSERT INTO shift_plans (tenant_id, store_id, plan_year, plan_month, plan_code, plan_name, period_start, period_end, plan_type, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, version
	`

	args := []any{
		plan.TenantID,
		plan.StoreID,
		plan.PlanYear,
		plan.PlanMonth,
		plan.PlanCode,
		plan.PlanName,
		plan.PeriodStart,
		plan.PeriodEnd,
		plan.PlanType,
		plan.Status,
	}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&plan.ID, &plan.CreatedAt, &plan.Version); err != nil {
		return err
	}

	return nil
}

func insertShiftsTx(ctx context.Context, tx *sql.Tx, planID int64, shifts []*domain.Shift) error {
	query := `
		INSERT INTO shifts (tenant_id, store_id, plan_id, staff_id, shift_date, start_time, end_time, break_minutes, total_hours, is_preferred)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	for _, shift := range shifts {
		shift.PlanID = planID
		args := []any{
			shift.TenantID,
			shift.StoreID,
			shift.PlanID,
			shift.StaffID,
			shift.Date,
			shift.StartTime,
			shift.EndTime,
			shift.BreakMinutes,
			shift.TotalHours,
			shift.IsPreferred,
		}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&shift.ID, &shift.CreatedAt); err != nil {
			return err
		}
	}

	return nil
}
