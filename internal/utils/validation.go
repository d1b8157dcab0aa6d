package utils

import (
	"fmt"

	"github.com/storeops-dev/shift-scheduler/backend/internal/calendarx"
	"github.com/storeops-dev/shift-scheduler/backend/internal/domain"
)

func prefKey(staffID int64, dateKey string) string {
	return fmt.Sprintf("%d_%s", staffID, dateKey)
}

// ValidateDraftShifts 校验生成的班次是否和希望班次对得上
// 生成算法本身应该保证这些约束，这里是写库前的最后一道防线
func ValidateDraftShifts(shifts []*domain.Shift, preferences []*domain.ShiftPreference) error {
	ngSet := make(map[string]bool)
	windows := make(map[string]*domain.ShiftPreference)

	for _, pref := range preferences {
		key := prefKey(pref.StaffID, pref.Date.Format("2006-01-02"))
		if pref.IsNG {
			// NG 优先于同一天的任何希望时间段
			ngSet[key] = true
			delete(windows, key)
			continue
		}
		if pref.StartTime != nil && pref.EndTime != nil && !ngSet[key] {
			windows[key] = pref
		}
	}

	for _, shift := range shifts {
		key := prefKey(shift.StaffID, shift.Date.Format("2006-01-02"))

		if ngSet[key] {
			return fmt.Errorf("员工 %d 在 NG 日 %s 被排班了", shift.StaffID, shift.Date.Format("2006-01-02"))
		}

		if shift.IsPreferred {
			pref, exists := windows[key]
			if !exists {
				return fmt.Errorf("员工 %d 在 %s 的班次标记了希望时间段，但找不到对应的提交记录", shift.StaffID, shift.Date.Format("2006-01-02"))
			}
			if shift.StartTime != *pref.StartTime || shift.EndTime != *pref.EndTime {
				return fmt.Errorf("员工 %d 在 %s 的班次时间 %s-%s 和希望时间段 %s-%s 不一致",
					shift.StaffID, shift.Date.Format("2006-01-02"), shift.StartTime, shift.EndTime, *pref.StartTime, *pref.EndTime)
			}
		}

		// 工时必须由时间段重新计算得到，并且严格为正
		totalHours, err := calendarx.ShiftHours(shift.StartTime, shift.EndTime, shift.BreakMinutes)
		if err != nil {
			return fmt.Errorf("员工 %d 在 %s 的班次时长非法: %w", shift.StaffID, shift.Date.Format("2006-01-02"), err)
		}
		if totalHours != shift.TotalHours {
			return fmt.Errorf("员工 %d 在 %s 的班次工时 %.2f 和计算值 %.2f 不一致",
				shift.StaffID, shift.Date.Format("2006-01-02"), shift.TotalHours, totalHours)
		}
	}

	return nil
}
