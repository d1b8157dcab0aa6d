// Package rollover 按日历位置（第 N 个星期 X）核对上月已承认的排班
// 是否被目标月的第一案保留，按员工输出一致/不一致/仅源月存在的报告
// 本包只读不写，可以和其他只读报表并发执行
package rollover

import (
	"context"
	"sort"

	"github.com/storeops-dev/shift-scheduler/backend/internal/calendarx"
	"github.com/storeops-dev/shift-scheduler/backend/internal/domain"
)

// Match 表示源月班次在目标月的相同日历位置上找到了属性完全一致的班次
type Match struct {
	Key    calendarx.PositionKey `json:"key"`
	Source *domain.Shift         `json:"source"`
	Target *domain.Shift         `json:"target"`
}

// Mismatch 表示目标月的相同日历位置上有班次，但属性都不一致
// Candidates 带上目标侧的全部候选，方便人工排查
type Mismatch struct {
	Key        calendarx.PositionKey `json:"key"`
	Source     *domain.Shift         `json:"source"`
	Candidates []*domain.Shift       `json:"candidates"`
}

// Orphan 表示目标月根本没有对应的日历位置
// 常见于源月有第 5 个星期 X 而目标月没有的情况，这不是错误
type Orphan struct {
	Key    calendarx.PositionKey `json:"key"`
	Source *domain.Shift         `json:"source"`
}

type StaffReport struct {
	StaffID      int64      `json:"staffID"`
	SourceShifts int        `json:"sourceShifts"`
	TargetShifts int        `json:"targetShifts"`
	Matches      []Match    `json:"matches"`
	Mismatches   []Mismatch `json:"mismatches"`
	Orphans      []Orphan   `json:"orphans"`
}

type Report struct {
	StaffReports      []*StaffReport `json:"staffReports"`
	TotalSourceShifts int            `json:"totalSourceShifts"`
	TotalTargetShifts int            `json:"totalTargetShifts"`
	TotalMatches      int            `json:"totalMatches"`
	TotalMismatches   int            `json:"totalMismatches"`
	TotalOrphans      int            `json:"totalOrphans"`
	MatchRate         float64        `json:"matchRate"` // 一致数 / 源月班次总数
}

// Map 对比源月和目标月的班次
// 每条源月班次被归类为一致/不一致/仅源月存在中的恰好一种
func Map(ctx context.Context, sourceShifts []*domain.Shift, targetShifts []*domain.Shift) (*Report, error) {
	sourceByStaff := groupByStaff(sourceShifts)
	targetByStaff := groupByStaff(targetShifts)

	// 按员工 ID 排序，保证报告顺序稳定
	staffIDs := make([]int64, 0, len(sourceByStaff))
	for staffID := range sourceByStaff {
		staffIDs = append(staffIDs, staffID)
	}
	sort.Slice(staffIDs, func(i, j int) bool { return staffIDs[i] < staffIDs[j] })

	report := &Report{
		StaffReports:      make([]*StaffReport, 0, len(staffIDs)),
		TotalSourceShifts: len(sourceShifts),
		TotalTargetShifts: len(targetShifts),
	}

	for _, staffID := range staffIDs {
		// 员工之间互不依赖，在这里支持取消
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		staffReport := mapStaff(staffID, sourceByStaff[staffID], targetByStaff[staffID])
		report.StaffReports = append(report.StaffReports, staffReport)
		report.TotalMatches += len(staffReport.Matches)
		report.TotalMismatches += len(staffReport.Mismatches)
		report.TotalOrphans += len(staffReport.Orphans)
	}

	if report.TotalSourceShifts > 0 {
		report.MatchRate = float64(report.TotalMatches) / float64(report.TotalSourceShifts)
	}

	return report, nil
}

func mapStaff(staffID int64, source []*domain.Shift, target []*domain.Shift) *StaffReport {
	staffReport := &StaffReport{
		StaffID:      staffID,
		SourceShifts: len(source),
		TargetShifts: len(target),
		Matches:      make([]Match, 0),
		Mismatches:   make([]Mismatch, 0),
		Orphans:      make([]Orphan, 0),
	}

	// 同一天可能有多条班次（分段班），所以每个位置键对应的是列表
	targetByKey := make(map[calendarx.PositionKey][]*domain.Shift)
	for _, shift := range target {
		key := calendarx.PositionKeyOf(shift.Date)
		targetByKey[key] = append(targetByKey[key], shift)
	}

	// 已经配对过的目标班次不再参与后续配对
	paired := make(map[*domain.Shift]bool)

	for _, src := range sortedByDate(source) {
		key := calendarx.PositionKeyOf(src.Date)
		candidates, keyExists := targetByKey[key]

		if !keyExists {
			staffReport.Orphans = append(staffReport.Orphans, Orphan{Key: key, Source: src})
			continue
		}

		var matched *domain.Shift
		for _, candidate := range candidates {
			if paired[candidate] {
				continue
			}
			if sameAttributes(src, candidate) {
				matched = candidate
				break
			}
		}

		if matched != nil {
			paired[matched] = true
			staffReport.Matches = append(staffReport.Matches, Match{Key: key, Source: src, Target: matched})
		} else {
			staffReport.Mismatches = append(staffReport.Mismatches, Mismatch{Key: key, Source: src, Candidates: candidates})
		}
	}

	return staffReport
}

func sameAttributes(a *domain.Shift, b *domain.Shift) bool {
	return a.StartTime == b.StartTime &&
		a.EndTime == b.EndTime &&
		a.BreakMinutes == b.BreakMinutes &&
		a.StoreID == b.StoreID
}

func groupByStaff(shifts []*domain.Shift) map[int64][]*domain.Shift {
	byStaff := make(map[int64][]*domain.Shift)
	for _, shift := range shifts {
		byStaff[shift.StaffID] = append(byStaff[shift.StaffID], shift)
	}
	return byStaff
}

func sortedByDate(shifts []*domain.Shift) []*domain.Shift {
	sorted := append([]*domain.Shift{}, shifts...)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].StartTime < sorted[j].StartTime
	})
	return sorted
}
