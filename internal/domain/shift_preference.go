package domain

import "time"

// ShiftPreference 是员工提交的某一天的希望班次
// IsNG 为 true 表示当天不可出勤，此时 StartTime 和 EndTime 无意义
// IsNG 为 false 时 StartTime 和 EndTime 可以为 nil，表示可出勤但没有希望时间段
type ShiftPreference struct {
	ID        int64     `json:"id"`
	TenantID  int64     `json:"tenantID"`
	StaffID   int64     `json:"staffID"`
	StoreID   int64     `json:"storeID"`
	Date      time.Time `json:"date"`
	IsNG      bool      `json:"isNG"`
	StartTime *string   `json:"startTime"` // "HH:MM"
	EndTime   *string   `json:"endTime"`   // "HH:MM"
	CreatedAt time.Time `json:"createdAt"`
}
