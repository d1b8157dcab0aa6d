package domain

import "time"

// Shift 是排班计划中的一条班次记录
// TotalHours 永远由 (StartTime, EndTime, BreakMinutes) 重新计算得到，不允许单独修改
type Shift struct {
	ID           int64     `json:"id"`
	TenantID     int64     `json:"tenantID"`
	StoreID      int64     `json:"storeID"`
	PlanID       int64     `json:"planID"`
	StaffID      int64     `json:"staffID"`
	Date         time.Time `json:"date"`
	StartTime    string    `json:"startTime"` // "HH:MM"
	EndTime      string    `json:"endTime"`   // "HH:MM"
	BreakMinutes int       `json:"breakMinutes"`
	TotalHours   float64   `json:"totalHours"`
	IsPreferred  bool      `json:"isPreferred"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ShiftPattern 是没有希望时间段时使用的固定班次模板
type ShiftPattern struct {
	Name         string `json:"name"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	BreakMinutes int    `json:"breakMinutes"`
}

// 默认的班次模板目录，可以通过参数覆盖
var DefaultShiftPatterns = []ShiftPattern{
	{Name: "日勤", StartTime: "09:00", EndTime: "18:00", BreakMinutes: 60},
	{Name: "中番", StartTime: "10:00", EndTime: "19:00", BreakMinutes: 60},
	{Name: "遅番1", StartTime: "11:00", EndTime: "20:00", BreakMinutes: 60},
	{Name: "遅番2", StartTime: "14:00", EndTime: "22:00", BreakMinutes: 60},
}
