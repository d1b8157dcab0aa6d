package domain

import "time"

type PlanType string

const (
	PlanTypeFirst  PlanType = "FIRST"  // 第一案（草稿）
	PlanTypeSecond PlanType = "SECOND" // 第二案（已承认）
)

type PlanStatus string

const (
	PlanStatusDraft    PlanStatus = "DRAFT"
	PlanStatusApproved PlanStatus = "APPROVED"
)

// ShiftPlan 是某个门店某个月的排班容器
// (tenant, store, year, month, type) 唯一
type ShiftPlan struct {
	ID          int64      `json:"id"`
	TenantID    int64      `json:"tenantID"`
	StoreID     int64      `json:"storeID"`
	PlanYear    int        `json:"planYear"`
	PlanMonth   int        `json:"planMonth"`
	PlanCode    string     `json:"planCode"`
	PlanName    string     `json:"planName"`
	PeriodStart time.Time  `json:"periodStart"`
	PeriodEnd   time.Time  `json:"periodEnd"`
	PlanType    PlanType   `json:"planType"`
	Status      PlanStatus `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	Version     int32      `json:"-"`
}
