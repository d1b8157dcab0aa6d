package scheduler

import (
	"errors"
	"fmt"
	"time"

	"github.com/storeops-dev/shift-scheduler/backend/internal/domain"
)

// 排班生成参数
type Parameters struct {
	TenantID            int64
	Year                int
	Month               int
	WeekdayMinHeadcount int // 工作日需要人数的下限
	WeekdayMaxHeadcount int // 工作日需要人数的上限
	WeekendMinHeadcount int // 周末需要人数的下限
	WeekendMaxHeadcount int // 周末需要人数的上限
	DefaultBreakMinutes int
	Patterns            []domain.ShiftPattern // 没有希望时间段时使用的班次模板目录
	Seed                int64                 // 为 0 时使用当前时间作为种子，测试时传入固定值保证可复现
}

func (p *Parameters) Validate() error {
	if p.Year < 2000 || p.Year > 2100 {
		return fmt.Errorf("年份 %d 无效", p.Year)
	}
	if p.Month < 1 || p.Month > 12 {
		return fmt.Errorf("月份 %d 无效", p.Month)
	}
	// 下限允许为 0，工作日基本不营业的门店是合法配置
	if p.WeekdayMinHeadcount < 0 || p.WeekdayMinHeadcount > p.WeekdayMaxHeadcount {
		return fmt.Errorf("工作日需要人数区间 [%d, %d] 无效", p.WeekdayMinHeadcount, p.WeekdayMaxHeadcount)
	}
	if p.WeekendMinHeadcount < 0 || p.WeekendMinHeadcount > p.WeekendMaxHeadcount {
		return fmt.Errorf("周末需要人数区间 [%d, %d] 无效", p.WeekendMinHeadcount, p.WeekendMaxHeadcount)
	}
	if len(p.Patterns) == 0 {
		return errors.New("班次模板目录不能为空")
	}
	return nil
}

// Shortfall 表示某一天可排员工数少于需要人数
// 这不是错误，下游的告警组件会把它标记为人手不足
type Shortfall struct {
	Date     time.Time `json:"date"`
	Required int       `json:"required"`
	Assigned int       `json:"assigned"`
}

// StorePlan 是单个门店的生成结果
type StorePlan struct {
	Plan          *domain.ShiftPlan `json:"plan"`
	Shifts        []*domain.Shift   `json:"shifts"`
	Shortfalls    []Shortfall       `json:"shortfalls"`
	DroppedShifts int               `json:"droppedShifts"` // 因为时长非法被丢弃的班次数量
}

// SkippedStore 表示因为没有在职员工而被跳过的门店
type SkippedStore struct {
	StoreID   int64  `json:"storeID"`
	StoreName string `json:"storeName"`
	Reason    string `json:"reason"`
}

// Result 是一次生成的完整结果
// 短缺、丢弃和跳过都不是错误，统一收集在这里返回给操作员
type Result struct {
	StorePlans      []*StorePlan   `json:"storePlans"`
	SkippedStores   []SkippedStore `json:"skippedStores"`
	TotalShifts     int            `json:"totalShifts"`
	TotalShortfalls int            `json:"totalShortfalls"`
	TotalDropped    int            `json:"totalDropped"`
}
