package repository

import (
	"context"
	"time"

	"github.com/storeops-dev/shift-scheduler/backend/internal/domain"
)

func (r *Repository) GetActiveStaffByTenant(tenantID int64) ([]*domain.Staff, error) {
	query := `
		SELECT id, tenant_id, store_id, name, code, employment_type, is_active, created_at, version
		FROM staff
		WHERE tenant_id = $1 AND is_active = true
		ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	staffList := make([]*domain.Staff, 0)
	for rows.Next() {
		staff := &domain.Staff{}
		dst := []any{&staff.ID, &staff.TenantID, &staff.StoreID, &staff.Name, &staff.Code, &staff.EmploymentType, &staff.IsActive, &staff.CreatedAt, &staff.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		staffList = append(staffList, staff)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return staffList, nil
}

func (r *Repository) CreateStaff(staff *domain.Staff) error {
	query := `
		INSERT INTO staff (tenant_id, store_id, name, code, employment_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_active, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{staff.TenantID, staff.StoreID, staff.Name, staff.Code, staff.EmploymentType}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&staff.ID, &staff.IsActive, &staff.CreatedAt, &staff.Version); err != nil {
		return err
	}

	return nil
}
