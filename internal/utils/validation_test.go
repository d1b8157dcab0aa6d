package utils

import (
	"testing"
	"time"

	"github.com/storeops-dev/shift-scheduler/backend/internal/domain"
)

func testDate(day int) time.Time {
	return time.Date(2025, 9, day, 0, 0, 0, 0, time.UTC)
}

func validShift(staffID int64, day int) *domain.Shift {
	return &domain.Shift{
		TenantID:     1,
		StoreID:      1,
		StaffID:      staffID,
		Date:         testDate(day),
		StartTime:    "09:00",
		EndTime:      "18:00",
		BreakMinutes: 60,
		TotalHours:   8,
	}
}

func TestValidateDraftShifts_OK(t *testing.T) {
	start, end := "09:00", "18:00"
	preferences := []*domain.ShiftPreference{
		{StaffID: 1, Date: testDate(10), StartTime: &start, EndTime: &end},
	}

	preferred := validShift(1, 10)
	preferred.IsPreferred = true

	shifts := []*domain.Shift{preferred, validShift(2, 10)}
	if err := ValidateDraftShifts(shifts, preferences); err != nil {
		t.Errorf("合法的班次不应该校验失败: %v", err)
	}
}

func TestValidateDraftShifts_NGAssigned(t *testing.T) {
	preferences := []*domain.ShiftPreference{
		{StaffID: 1, Date: testDate(10), IsNG: true},
	}

	if err := ValidateDraftShifts([]*domain.Shift{validShift(1, 10)}, preferences); err == nil {
		t.Error("NG 日被排班应该校验失败")
	}
}

func TestValidateDraftShifts_NGWinsOverWindow(t *testing.T) {
	// 同一天既有 NG 又有希望时间段，NG 优先，排班仍然非法
	start, end := "09:00", "18:00"
	preferences := []*domain.ShiftPreference{
		{StaffID: 1, Date: testDate(10), StartTime: &start, EndTime: &end},
		{StaffID: 1, Date: testDate(10), IsNG: true},
	}

	shift := validShift(1, 10)
	shift.IsPreferred = true

	if err := ValidateDraftShifts([]*domain.Shift{shift}, preferences); err == nil {
		t.Error("NG 应该优先于希望时间段，排班应该校验失败")
	}
}

func TestValidateDraftShifts_PreferredTimeDrift(t *testing.T) {
	start, end := "10:00", "19:00"
	preferences := []*domain.ShiftPreference{
		{StaffID: 1, Date: testDate(10), StartTime: &start, EndTime: &end},
	}

	// 班次标记了 isPreferred 但时间和希望时间段不一致
	shift := validShift(1, 10)
	shift.IsPreferred = true

	if err := ValidateDraftShifts([]*domain.Shift{shift}, preferences); err == nil {
		t.Error("希望时间段被篡改应该校验失败")
	}
}

func TestValidateDraftShifts_PreferredWithoutSubmission(t *testing.T) {
	shift := validShift(1, 10)
	shift.IsPreferred = true

	if err := ValidateDraftShifts([]*domain.Shift{shift}, nil); err == nil {
		t.Error("没有提交记录的 isPreferred 班次应该校验失败")
	}
}

func TestValidateDraftShifts_TotalHoursDrift(t *testing.T) {
	shift := validShift(1, 10)
	shift.TotalHours = 9 // 实际应该是 8

	if err := ValidateDraftShifts([]*domain.Shift{shift}, nil); err == nil {
		t.Error("工时和时间段对不上应该校验失败")
	}
}

func TestValidateDraftShifts_InvalidDuration(t *testing.T) {
	shift := validShift(1, 10)
	shift.StartTime, shift.EndTime = "18:00", "09:00"

	if err := ValidateDraftShifts([]*domain.Shift{shift}, nil); err == nil {
		t.Error("结束时间早于开始时间应该校验失败")
	}
}
