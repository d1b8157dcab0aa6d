package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/storeops-dev/shift-scheduler/backend/internal/calendarx"
	"github.com/storeops-dev/shift-scheduler/backend/internal/domain"
)

func (r *Repository) GetPreferencesByMonth(tenantID int64, year int, month int) ([]*domain.ShiftPreference, error) {
	query := `
		SELECT id, tenant_id, staff_id, store_id, preference_date, is_ng, start_time, end_time, created_at
		FROM shift_preferences
		WHERE tenant_id = $1 AND preference_date >= $2 AND preference_date <= $3
		ORDER BY staff_id, preference_date
	`

	dateFrom := fmt.Sprintf("%04d-%02d-01", year, month)
	dateTo := fmt.Sprintf("%04d-%02d-%02d", year, month, calendarx.DaysInMonth(year, month))

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, tenantID, dateFrom, dateTo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	preferences := make([]*domain.ShiftPreference, 0)
	for rows.Next() {
		pref := &domain.ShiftPreference{}
		dst := []any{&pref.ID, &pref.TenantID, &pref.StaffID, &pref.StoreID, &pref.Date, &pref.IsNG, &pref.StartTime, &pref.EndTime, &pref.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		preferences = append(preferences, pref)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return preferences, nil
}

func (r *Repository) CreateShiftPreference(pref *domain.ShiftPreference) error {
	query := `
		INSERT INTO shift_preferences (tenant_id, staff_id, store_id, preference_date, is_ng, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{pref.TenantID, pref.StaffID, pref.StoreID, pref.Date, pref.IsNG, pref.StartTime, pref.EndTime}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&pref.ID, &pref.CreatedAt); err != nil {
		return err
	}

	return nil
}
