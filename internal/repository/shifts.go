package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/storeops-dev/shift-scheduler/backend/internal/domain"
)

func (r *Repository) GetShiftsByPlanID(planID int64) ([]*domain.Shift, error) {
	query := `
		SELECT id, tenant_id, store_id, plan_id, staff_id, shift_date, start_time, end_time, break_minutes, total_hours, is_preferred, created_at
		FROM shifts
		WHERE plan_id = $1
		ORDER BY shift_date, start_time, staff_id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanShifts(rows)
}

// GetShiftsByMonthAndType 返回某个月某种计划类型下的所有班次
// storeID 为 nil 时不过滤门店
func (r *Repository) GetShiftsByMonthAndType(tenantID int64, year int, month int, planType domain.PlanType, storeID *int64) ([]*domain.Shift, error) {
	query := `
		SELECT s.id, s.tenant_id, s.store_id, s.plan_id, s.staff_id, s.shift_date, s.start_time, s.end_time, s.break_minutes, s.total_hours, s.is_preferred, s.created_at
		FROM shifts s
		JOIN shift_plans p ON s.plan_id = p.id
		WHERE p.tenant_id = $1 AND p.plan_year = $2 AND p.plan_month = $3 AND p.plan_type = $4
			AND ($5::bigint IS NULL OR s.store_id = $5)
		ORDER BY s.staff_id, s.shift_date, s.start_time
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, tenantID, year, month, planType, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanShifts(rows)
}

func scanShifts(rows *sql.Rows) ([]*domain.Shift, error) {
	shifts := make([]*domain.Shift, 0)
	for rows.Next() {
		shift := &domain.Shift{}
		dst := []any{&shift.ID, &shift.TenantID, &shift.StoreID, &shift.PlanID, &shift.StaffID, &shift.Date, &shift.StartTime, &shift.EndTime, &shift.BreakMinutes, &shift.TotalHours, &shift.IsPreferred, &shift.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shifts, nil
}
