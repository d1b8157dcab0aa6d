package domain

import "time"

type Store struct {
	ID           int64     `json:"id"`
	TenantID     int64     `json:"tenantID"`
	Name         string    `json:"name"`
	ManagerEmail string    `json:"managerEmail"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}
