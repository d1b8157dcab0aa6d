package scheduler

import (
	"time"

	"github.com/storeops-dev/shift-scheduler/backend/internal/calendarx"
)

// requiredHeadcount 返回某天需要的人数
// 周末从高区间取值，工作日从低区间取值，每天独立随机
// 这只是目标值，不是保证值，可排员工不够时按实际人数排
func (s *Scheduler) requiredHeadcount(date time.Time) int {
	if calendarx.IsWeekend(date) {
		return s.randRange(s.parameters.WeekendMinHeadcount, s.parameters.WeekendMaxHeadcount)
	}
	return s.randRange(s.parameters.WeekdayMinHeadcount, s.parameters.WeekdayMaxHeadcount)
}

// randRange 返回 [min, max] 之间的随机整数
func (s *Scheduler) randRange(min int, max int) int {
	return s.rng.Intn(max-min+1) + min
}
