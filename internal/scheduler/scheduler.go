package scheduler

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/storeops-dev/shift-scheduler/backend/internal/calendarx"
	"github.com/storeops-dev/shift-scheduler/backend/internal/domain"
	"github.com/storeops-dev/shift-scheduler/backend/internal/utils"
)

type Scheduler struct {
	parameters   *Parameters
	stores       []*domain.Store
	staffByStore map[int64][]*domain.Staff // 只保存在职员工
	preferences  []*domain.ShiftPreference // 仅做最后的校验使用
	avail        *availability
	rng          *rand.Rand
}

func New(parameters *Parameters, stores []*domain.Store, staff []*domain.Staff, preferences []*domain.ShiftPreference) (*Scheduler, error) {
	if err := parameters.Validate(); err != nil {
		return nil, err
	}

	seed := parameters.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &Scheduler{
		parameters:   parameters,
		stores:       stores,
		staffByStore: make(map[int64][]*domain.Staff),
		preferences:  preferences,
		avail:        buildAvailability(preferences),
		rng:          rand.New(rand.NewSource(seed)),
	}

	for _, st := range staff {
		if !st.IsActive {
			continue
		}
		s.staffByStore[st.StoreID] = append(s.staffByStore[st.StoreID], st)
	}

	return s, nil
}

// Generate 为每个门店生成整月的第一案
// 没有在职员工的门店会被跳过并记录警告，不会中断整次生成
func (s *Scheduler) Generate(ctx context.Context) (*Result, error) {
	result := &Result{
		StorePlans:    make([]*StorePlan, 0, len(s.stores)),
		SkippedStores: make([]SkippedStore, 0),
	}

	dates := calendarx.MonthDates(s.parameters.Year, s.parameters.Month)

	for _, store := range s.stores {
		storeStaff := s.staffByStore[store.ID]
		if len(storeStaff) == 0 {
			result.SkippedStores = append(result.SkippedStores, SkippedStore{
				StoreID:   store.ID,
				StoreName: store.Name,
				Reason:    "没有在职员工",
			})
			continue
		}

		storePlan, err := s.generateStore(ctx, store, storeStaff, dates)
		if err != nil {
			return nil, err
		}

		result.StorePlans = append(result.StorePlans, storePlan)
		result.TotalShifts += len(storePlan.Shifts)
		result.TotalShortfalls += len(storePlan.Shortfalls)
		result.TotalDropped += storePlan.DroppedShifts
	}

	// 最后再校验一遍生成结果和希望班次是否对得上
	for _, storePlan := range result.StorePlans {
		if err := utils.ValidateDraftShifts(storePlan.Shifts, s.preferences); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (s *Scheduler) generateStore(ctx context.Context, store *domain.Store, storeStaff []*domain.Staff, dates []time.Time) (*StorePlan, error) {
	storePlan := &StorePlan{
		Plan:       s.newFirstPlan(store),
		Shifts:     make([]*domain.Shift, 0),
		Shortfalls: make([]Shortfall, 0),
	}

	for _, date := range dates {
		// 在日期之间支持取消，已经生成的门店结果不受影响
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		required := s.requiredHeadcount(date)
		eligible := s.avail.eligibleOn(storeStaff, date)

		// 打乱顺序，避免排在列表前面的员工总是被优先排班
		s.rng.Shuffle(len(eligible), func(i, j int) {
			eligible[i], eligible[j] = eligible[j], eligible[i]
		})

		if len(eligible) < required {
			storePlan.Shortfalls = append(storePlan.Shortfalls, Shortfall{
				Date:     date,
				Required: required,
				Assigned: len(eligible),
			})
		}

		assignNum := min(required, len(eligible))
		for _, staff := range eligible[:assignNum] {
			shift, err := s.resolveShift(store, staff, date)
			if err != nil {
				// 单条班次的数据质量问题只丢弃这一条，不影响整月生成
				storePlan.DroppedShifts++
				continue
			}
			storePlan.Shifts = append(storePlan.Shifts, shift)
		}
	}

	return storePlan, nil
}

func (s *Scheduler) newFirstPlan(store *domain.Store) *domain.ShiftPlan {
	year, month := s.parameters.Year, s.parameters.Month
	periodStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(year, time.Month(month), calendarx.DaysInMonth(year, month), 0, 0, 0, 0, time.UTC)

	return &domain.ShiftPlan{
		TenantID:    s.parameters.TenantID,
		StoreID:     store.ID,
		PlanYear:    year,
		PlanMonth:   month,
		PlanCode:    fmt.Sprintf("FIRST-%04d%02d-%d", year, month, store.ID),
		PlanName:    fmt.Sprintf("%d年%d月 第一案 (%s)", year, month, store.Name),
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		PlanType:    domain.PlanTypeFirst,
		Status:      domain.PlanStatusDraft,
	}
}

// resolveShift 为被选中的员工确定班次的时间段
// 有希望时间段时原样使用，否则从班次模板目录中随机选一个
func (s *Scheduler) resolveShift(store *domain.Store, staff *domain.Staff, date time.Time) (*domain.Shift, error) {
	var startTime, endTime string
	var breakMinutes int
	isPreferred := false

	if w := s.avail.preferredWindowOf(staff.ID, date); w != nil {
		startTime = w.startTime
		endTime = w.endTime
		breakMinutes = s.parameters.DefaultBreakMinutes
		isPreferred = true
	} else {
		pattern := s.parameters.Patterns[s.rng.Intn(len(s.parameters.Patterns))]
		startTime = pattern.StartTime
		endTime = pattern.EndTime
		breakMinutes = pattern.BreakMinutes
	}

	totalHours, err := calendarx.ShiftHours(startTime, endTime, breakMinutes)
	if err != nil {
		return nil, err
	}

	return &domain.Shift{
		TenantID:     s.parameters.TenantID,
		StoreID:      store.ID,
		StaffID:      staff.ID,
		Date:         date,
		StartTime:    startTime,
		EndTime:      endTime,
		BreakMinutes: breakMinutes,
		TotalHours:   totalHours,
		IsPreferred:  isPreferred,
	}, nil
}
