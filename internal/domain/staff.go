package domain

import "time"

type EmploymentType string

const (
	EmploymentFullTime EmploymentType = "FULL_TIME"
	EmploymentPartTime EmploymentType = "PART_TIME"
)

// Staff 是门店的排班对象，由 HR 侧维护，本系统只读
type Staff struct {
	ID             int64          `json:"id"`
	TenantID       int64          `json:"tenantID"`
	StoreID        int64          `json:"storeID"` // 所属门店
	Name           string         `json:"name"`
	Code           string         `json:"code"`
	EmploymentType EmploymentType `json:"employmentType"`
	IsActive       bool           `json:"isActive"`
	CreatedAt      time.Time      `json:"createdAt"`
	Version        int32          `json:"-"`
}
