package calendarx

import (
	"testing"
	"time"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ── 日历位置测试 ──

func TestWeekdayOf(t *testing.T) {
	// 2025-08-03 是周日
	if got := WeekdayOf(date(2025, 8, 3)); got != 0 {
		t.Errorf("期望周日=0，实际=%d", got)
	}
	// 2025-08-08 是周五
	if got := WeekdayOf(date(2025, 8, 8)); got != 5 {
		t.Errorf("期望周五=5，实际=%d", got)
	}
}

func TestOccurrenceIndexOf(t *testing.T) {
	cases := []struct {
		day  int
		want int
	}{
		{1, 1},
		{7, 1},
		{8, 2},
		{14, 2},
		{15, 3},
		{28, 4},
		{29, 5},
		{31, 5},
	}

	for _, c := range cases {
		if got := OccurrenceIndexOf(date(2025, 8, c.day)); got != c.want {
			t.Errorf("8月%d日期望第%d个，实际=%d", c.day, c.want, got)
		}
	}
}

func TestPositionKeyOf(t *testing.T) {
	// 2025-08-29 是当月第 5 个周五
	key := PositionKeyOf(date(2025, 8, 29))
	if key.Occurrence != 5 || key.Weekday != 5 {
		t.Errorf("期望第5个周五，实际=%+v", key)
	}
	if key.String() != "第5个周五" {
		t.Errorf("期望 第5个周五，实际=%s", key.String())
	}
}

func TestPositionKeyAlignsAcrossMonths(t *testing.T) {
	// 2025年8月的第 2 个周五是 8 日，9月的第 2 个周五是 12 日
	if PositionKeyOf(date(2025, 8, 8)) != PositionKeyOf(date(2025, 9, 12)) {
		t.Error("跨月的相同日历位置应该有相同的位置键")
	}
}

// ── 月份测试 ──

func TestDaysInMonth(t *testing.T) {
	cases := []struct {
		year  int
		month int
		want  int
	}{
		{2025, 1, 31},
		{2025, 2, 28},
		{2024, 2, 29}, // 闰年
		{2025, 4, 30},
		{2025, 12, 31},
	}

	for _, c := range cases {
		if got := DaysInMonth(c.year, c.month); got != c.want {
			t.Errorf("%d年%d月期望%d天，实际=%d", c.year, c.month, c.want, got)
		}
	}
}

func TestMonthDates(t *testing.T) {
	dates := MonthDates(2025, 9)
	if len(dates) != 30 {
		t.Fatalf("期望30天，实际=%d", len(dates))
	}
	if !dates[0].Equal(date(2025, 9, 1)) {
		t.Errorf("期望第一天是2025-09-01，实际=%v", dates[0])
	}
	if !dates[29].Equal(date(2025, 9, 30)) {
		t.Errorf("期望最后一天是2025-09-30，实际=%v", dates[29])
	}
}

func TestIsWeekend(t *testing.T) {
	// 2025-08-09 是周六，2025-08-11 是周一
	if !IsWeekend(date(2025, 8, 9)) {
		t.Error("周六应该是周末")
	}
	if !IsWeekend(date(2025, 8, 10)) {
		t.Error("周日应该是周末")
	}
	if IsWeekend(date(2025, 8, 11)) {
		t.Error("周一不应该是周末")
	}
}

// ── 时间解析和工时测试 ──

func TestParseClock(t *testing.T) {
	minutes, err := ParseClock("09:30")
	if err != nil {
		t.Fatalf("ParseClock 应成功: %v", err)
	}
	if minutes != 570 {
		t.Errorf("期望570分钟，实际=%d", minutes)
	}

	if _, err := ParseClock("25:00"); err == nil {
		t.Error("非法时间应该返回错误")
	}
	if _, err := ParseClock("abc"); err == nil {
		t.Error("非法时间应该返回错误")
	}
}

func TestShiftHours(t *testing.T) {
	hours, err := ShiftHours("09:00", "18:00", 60)
	if err != nil {
		t.Fatalf("ShiftHours 应成功: %v", err)
	}
	if hours != 8 {
		t.Errorf("期望8小时，实际=%v", hours)
	}

	hours, err = ShiftHours("14:00", "22:00", 90)
	if err != nil {
		t.Fatalf("ShiftHours 应成功: %v", err)
	}
	if hours != 6.5 {
		t.Errorf("期望6.5小时，实际=%v", hours)
	}
}

func TestShiftHours_EndBeforeStart(t *testing.T) {
	if _, err := ShiftHours("18:00", "09:00", 60); err == nil {
		t.Error("结束时间早于开始时间应该返回错误")
	}
	if _, err := ShiftHours("09:00", "09:00", 0); err == nil {
		t.Error("结束时间等于开始时间应该返回错误")
	}
}

func TestShiftHours_BreakEatsShift(t *testing.T) {
	if _, err := ShiftHours("10:00", "10:30", 60); err == nil {
		t.Error("休息时间吃掉全部时长应该返回错误")
	}
	if _, err := ShiftHours("10:00", "11:00", 60); err == nil {
		t.Error("工时为零应该返回错误")
	}
}
