package domain

import (
	"time"
)

type Role string

const (
	RoleAdmin        Role = "管理员"
	RoleScheduler    Role = "排班员"
	RoleStoreManager Role = "店长"
)

// User 是后台的操作员账号，不是门店员工
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}
