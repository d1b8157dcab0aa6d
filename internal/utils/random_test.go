package utils

import (
	"testing"

	"github.com/storeops-dev/shift-scheduler/backend/internal/calendarx"
	"github.com/storeops-dev/shift-scheduler/backend/internal/domain"
)

func TestGenerateStaffCodeFromChineseName(t *testing.T) {
	code := GenerateStaffCodeFromChineseName("王伟")
	if len(code) != 6 {
		t.Fatalf("期望编号长度6（2个拼音首字母+4位数字），实际=%d: %s", len(code), code)
	}
	if code[:2] != "ww" {
		t.Errorf("期望编号以 ww 开头，实际=%s", code)
	}
}

func TestGenerateRandomStaff(t *testing.T) {
	staff := GenerateRandomStaff(1, 7)
	if staff.TenantID != 1 || staff.StoreID != 7 {
		t.Errorf("期望租户1门店7，实际=租户%d门店%d", staff.TenantID, staff.StoreID)
	}
	if staff.Name == "" || staff.Code == "" {
		t.Error("随机员工的姓名和编号不应该为空")
	}
	if staff.EmploymentType != domain.EmploymentFullTime && staff.EmploymentType != domain.EmploymentPartTime {
		t.Errorf("非法的雇佣类型: %s", staff.EmploymentType)
	}
}

func TestGenerateRandomDaySubset(t *testing.T) {
	days := GenerateRandomDaySubset(30, 5)
	if len(days) != 5 {
		t.Fatalf("期望5天，实际=%d", len(days))
	}

	seen := make(map[int]bool)
	for _, day := range days {
		if day < 1 || day > 30 {
			t.Errorf("天数越界: %d", day)
		}
		if seen[day] {
			t.Errorf("天数重复: %d", day)
		}
		seen[day] = true
	}

	// 要求的天数超过当月天数时全月返回
	if got := len(GenerateRandomDaySubset(28, 40)); got != 28 {
		t.Errorf("期望28天，实际=%d", got)
	}
}

func TestGenerateRandomWindow(t *testing.T) {
	for i := 0; i < 50; i++ {
		start, end := GenerateRandomWindow()
		startMinutes, err := calendarx.ParseClock(start)
		if err != nil {
			t.Fatalf("开始时间非法: %v", err)
		}
		endMinutes, err := calendarx.ParseClock(end)
		if err != nil {
			t.Fatalf("结束时间非法: %v", err)
		}
		if endMinutes <= startMinutes {
			t.Fatalf("结束时间应该晚于开始时间: %s-%s", start, end)
		}
	}
}
