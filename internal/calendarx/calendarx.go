package calendarx

import (
	"fmt"
	"time"
)

// WeekdayOf 返回日期的星期（0=周日，和 Postgres 的 DOW 一致）
func WeekdayOf(date time.Time) int {
	return int(date.Weekday())
}

// OccurrenceIndexOf 返回日期在当月是第几个该星期
// 例如当月第一个周一返回 1，第二个周一返回 2
func OccurrenceIndexOf(date time.Time) int {
	return (date.Day()-1)/7 + 1
}

// PositionKey 用于跨月对齐相同的日历位置（第 N 个星期 X）
type PositionKey struct {
	Occurrence int `json:"occurrence"`
	Weekday    int `json:"weekday"`
}

func PositionKeyOf(date time.Time) PositionKey {
	return PositionKey{
		Occurrence: OccurrenceIndexOf(date),
		Weekday:    WeekdayOf(date),
	}
}

var weekdayNames = []string{"日", "一", "二", "三", "四", "五", "六"}

func (k PositionKey) String() string {
	return fmt.Sprintf("第%d个周%s", k.Occurrence, weekdayNames[k.Weekday])
}

// DaysInMonth 返回某年某月的天数
func DaysInMonth(year int, month int) int {
	// 下个月的第 0 天就是这个月的最后一天
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthDates 按日期顺序返回某年某月的所有日期
func MonthDates(year int, month int) []time.Time {
	days := DaysInMonth(year, month)
	dates := make([]time.Time, 0, days)
	for day := 1; day <= days; day++ {
		dates = append(dates, time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC))
	}
	return dates
}

// IsWeekend 判断日期是否是周六或周日
func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// ParseClock 将 "HH:MM" 解析为从零点开始的分钟数
func ParseClock(clock string) (int, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, fmt.Errorf("时间格式错误: %s", clock)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ShiftHours 根据开始结束时间和休息分钟数计算实际工时
// 结束时间不晚于开始时间、或休息时间吃掉了全部时长时返回错误
func ShiftHours(startTime string, endTime string, breakMinutes int) (float64, error) {
	start, err := ParseClock(startTime)
	if err != nil {
		return 0, err
	}
	end, err := ParseClock(endTime)
	if err != nil {
		return 0, err
	}

	workMinutes := end - start - breakMinutes
	if end <= start || workMinutes <= 0 {
		return 0, fmt.Errorf("班次时长非法: %s-%s 休息 %d 分钟", startTime, endTime, breakMinutes)
	}

	return float64(workMinutes) / 60, nil
}
