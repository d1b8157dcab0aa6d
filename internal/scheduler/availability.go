package scheduler

import (
	"time"

	"github.com/storeops-dev/shift-scheduler/backend/internal/domain"
)

type preferredWindow struct {
	startTime string
	endTime   string
}

// availability 把整个月的希望班次整理成两张查询表
// 同一员工同一天既有 NG 记录又有可出勤记录时，NG 优先
type availability struct {
	ngDays  map[int64]map[string]bool             // staffID -> 日期 -> 当天不可出勤
	windows map[int64]map[string]*preferredWindow // staffID -> 日期 -> 希望时间段
}

func dateKey(date time.Time) string {
	return date.Format("2006-01-02")
}

func buildAvailability(preferences []*domain.ShiftPreference) *availability {
	a := &availability{
		ngDays:  make(map[int64]map[string]bool),
		windows: make(map[int64]map[string]*preferredWindow),
	}

	// 先登记所有的 NG 日
	for _, pref := range preferences {
		if !pref.IsNG {
			continue
		}
		if _, exists := a.ngDays[pref.StaffID]; !exists {
			a.ngDays[pref.StaffID] = make(map[string]bool)
		}
		a.ngDays[pref.StaffID][dateKey(pref.Date)] = true
	}

	// 再登记希望时间段，NG 日上的希望时间段直接忽略
	for _, pref := range preferences {
		if pref.IsNG || pref.StartTime == nil || pref.EndTime == nil {
			continue
		}
		if a.isNG(pref.StaffID, pref.Date) {
			continue
		}
		if _, exists := a.windows[pref.StaffID]; !exists {
			a.windows[pref.StaffID] = make(map[string]*preferredWindow)
		}
		a.windows[pref.StaffID][dateKey(pref.Date)] = &preferredWindow{
			startTime: *pref.StartTime,
			endTime:   *pref.EndTime,
		}
	}

	return a
}

func (a *availability) isNG(staffID int64, date time.Time) bool {
	return a.ngDays[staffID][dateKey(date)]
}

func (a *availability) preferredWindowOf(staffID int64, date time.Time) *preferredWindow {
	return a.windows[staffID][dateKey(date)]
}

// eligibleOn 返回某门店某天可排的员工（在职且当天不是 NG）
func (a *availability) eligibleOn(storeStaff []*domain.Staff, date time.Time) []*domain.Staff {
	eligible := make([]*domain.Staff, 0, len(storeStaff))
	for _, staff := range storeStaff {
		if a.isNG(staff.ID, date) {
			continue
		}
		eligible = append(eligible, staff)
	}
	return eligible
}
