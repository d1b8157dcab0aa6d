package repository

import (
	"context"
	"time"

	"github.com/storeops-dev/shift-scheduler/backend/internal/domain"
)

func (r *Repository) GetActiveStoresByTenant(tenantID int64) ([]*domain.Store, error) {
	query := `
		SELECT id, tenant_id, name, manager_email, is_active, created_at, version
		FROM stores
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

	stores := make([]*domain.Store, 0)
	for rows.Next() {
		store := &domain.Store{}
		dst := []any{&store.ID, &store.TenantID, &store.Name, &store.ManagerEmail, &store.IsActive, &store.CreatedAt, &store.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		stores = append(stores, store)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stores, nil
}

func (r *Repository) GetStoreByID(id int64) (*domain.Store, error) {
	query := `
		SELECT tenant_id, name, manager_email, is_active, created_at, version
		FROM stores WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	store := &domain.Store{
		ID: id,
	}

	dst := []any{&store.TenantID, &store.Name, &store.ManagerEmail, &store.IsActive, &store.CreatedAt, &store.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return store, nil
}

func (r *Repository) CreateStore(store *domain.Store) error {
	query := `
		INSERT INTO stores (tenant_id, name, manager_email)
		VALUES ($1, $2, $3)
		RETURNING id, is_active, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{store.TenantID, store.Name, store.ManagerEmail}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&store.ID, &store.IsActive, &store.CreatedAt, &store.Version); err != nil {
		return err
	}

	return nil
}
