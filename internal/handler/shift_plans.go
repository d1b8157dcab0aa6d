package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/storeops-dev/shift-scheduler/backend/internal/domain"
	"github.com/storeops-dev/shift-scheduler/backend/internal/rollover"
	"github.com/storeops-dev/shift-scheduler/backend/internal/scheduler"
)

const (
	GenerateModePreview = "preview" // 只计算不落库
	GenerateModeApply   = "apply"   // 落库，已存在同键计划时报错
	GenerateModeReplace = "replace" // 先删除同键的旧计划再落库
)

func (h *Handler) GetShiftPlansByMonth(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		h.errorResponse(w, r, "年份无效")
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		h.errorResponse(w, r, "月份无效")
		return
	}

	plans, err := h.repository.GetShiftPlansByMonth(h.config.TenantID, year, month)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取排班计划成功", plans)
}

func (h *Handler) GetShiftPlanByID(w http.ResponseWriter, r *http.Request) {
	plan := r.Context().Value(ShiftPlanCtx).(*domain.ShiftPlan)

	h.successResponse(w, r, "获取排班计划成功", plan)
}

func (h *Handler) GetShiftPlanShifts(w http.ResponseWriter, r *http.Request) {
	plan := r.Context().Value(ShiftPlanCtx).(*domain.ShiftPlan)

	shifts, err := h.repository.GetShiftsByPlanID(plan.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取班次成功", shifts)
}

func (h *Handler) GenerateDraftPlans(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Year     int     `json:"year" validate:"required"`
		Month    int     `json:"month" validate:"required,min=1,max=12"`
		StoreIDs []int64 `json:"storeIDs"` // 省略时为全部门店
		Mode     string  `json:"mode" validate:"required,oneof=preview apply replace"`
		Seed     int64   `json:"seed"` // 仅用于复现问题，正常使用时省略
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 加载门店，并在写库之前把门店过滤参数里的配置错误检查掉
	allStores, err := h.repository.GetActiveStoresByTenant(h.config.TenantID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	stores := allStores
	if len(req.StoreIDs) > 0 {
		storeByID := make(map[int64]*domain.Store, len(allStores))
		for _, store := range allStores {
			storeByID[store.ID] = store
		}

		// 重复的门店会让 apply 模式在第一份提交后撞唯一索引，按配置错误提前拒绝
		seen := make(map[int64]bool, len(req.StoreIDs))
		stores = make([]*domain.Store, 0, len(req.StoreIDs))
		for _, storeID := range req.StoreIDs {
			if seen[storeID] {
				h.errorResponse(w, r, fmt.Sprintf("门店 %d 在请求中重复出现", storeID))
				return
			}
			seen[storeID] = true

			store, exists := storeByID[storeID]
			if !exists {
				h.errorResponse(w, r, fmt.Sprintf("门店 %d 不存在", storeID))
				return
			}
			stores = append(stores, store)
		}
	}

	// 加载员工和该月的希望班次
	staff, err := h.repository.GetActiveStaffByTenant(h.config.TenantID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	preferences, err := h.repository.GetPreferencesByMonth(h.config.TenantID, req.Year, req.Month)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 需要人数区间和班次模板都来自配置注入，不在这里写死
	parameters := &scheduler.Parameters{
		TenantID:            h.config.TenantID,
		Year:                req.Year,
		Month:               req.Month,
		WeekdayMinHeadcount: h.config.Schedule.WeekdayMinHeadcount,
		WeekdayMaxHeadcount: h.config.Schedule.WeekdayMaxHeadcount,
		WeekendMinHeadcount: h.config.Schedule.WeekendMinHeadcount,
		WeekendMaxHeadcount: h.config.Schedule.WeekendMaxHeadcount,
		DefaultBreakMinutes: h.config.Schedule.DefaultBreakMinutes,
		Patterns:            domain.DefaultShiftPatterns,
		Seed:                req.Seed,
	}

	sched, err := scheduler.New(parameters, stores, staff, preferences)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	result, err := sched.Generate(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if req.Mode == GenerateModePreview {
		h.successResponse(w, r, "生成第一案成功（预览，未落库）", result)
		return
	}

	// 按门店逐个落库，每个门店是一个原子事务
	// 中途失败时终止整次请求，已经提交的门店保持不动
	for _, storePlan := range result.StorePlans {
		if err := h.persistStorePlan(r.Context(), req.Mode, storePlan); err != nil {
			var pgErr *pgconn.PgError
			switch {
			case errors.As(err, &pgErr) && pgErr.ConstraintName == "shift_plans_tenant_store_month_type_key":
				h.errorResponse(w, r, fmt.Sprintf("门店 %d 当月的第一案已存在，请使用 replace 模式", storePlan.Plan.StoreID))
			case errors.Is(err, errStoreLocked):
				h.errorResponse(w, r, fmt.Sprintf("门店 %d 正在生成中，请稍后再试", storePlan.Plan.StoreID))
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		h.publishDraftGenerated(storePlan)
	}

	h.successResponse(w, r, "生成第一案成功", result)
}

var errStoreLocked = errors.New("该门店正在生成中")

// persistStorePlan 在 redis 锁的保护下落库单个门店的计划
// 锁保证同一门店同一月份的替换操作不会和并发的生成交错执行
func (h *Handler) persistStorePlan(ctx context.Context, mode string, storePlan *scheduler.StorePlan) error {
	plan := storePlan.Plan
	lockKey := fmt.Sprintf("shift_generate_lock_%d_%d_%04d%02d", plan.TenantID, plan.StoreID, plan.PlanYear, plan.PlanMonth)

	ok, err := h.redisClient.SetNX(ctx, lockKey, 1, time.Duration(h.config.Schedule.LockExpiration)*time.Second).Result()
	if err != nil {
		return err
	}
	if !ok {
		return errStoreLocked
	}
	defer func() {
		if err := h.redisClient.Del(context.Background(), lockKey).Err(); err != nil {
			slog.Error("释放生成锁失败", "key", lockKey, "error", err)
		}
	}()

	if mode == GenerateModeReplace {
		return h.repository.ReplaceShiftPlanWithShifts(plan, storePlan.Shifts)
	}
	return h.repository.CreateShiftPlanWithShifts(plan, storePlan.Shifts)
}

// publishDraftGenerated 通知店长第一案已生成
// 数据已经落库，通知失败只记日志，不让整个批次失败
func (h *Handler) publishDraftGenerated(storePlan *scheduler.StorePlan) {
	plan := storePlan.Plan

	store, err := h.repository.GetStoreByID(plan.StoreID)
	if err != nil {
		slog.Error("获取门店信息失败，跳过通知", "storeID", plan.StoreID, "error", err)
		return
	}
	if store.ManagerEmail == "" {
		return
	}

	message := domain.NotificationMessage{
		Type: "draft_generated",
		To:   store.ManagerEmail,
		Data: domain.DraftGeneratedMailData{
			StoreName:     store.Name,
			PlanYear:      plan.PlanYear,
			PlanMonth:     plan.PlanMonth,
			ShiftCount:    len(storePlan.Shifts),
			ShortfallDays: len(storePlan.Shortfalls),
			DroppedShifts: storePlan.DroppedShifts,
		},
	}

	body, err := json.Marshal(message)
	if err != nil {
		slog.Error("通知消息序列化失败", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.notifyChannel.PublishWithContext(
		ctx,
		"",
		"shift_notification_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	); err != nil {
		slog.Error("通知消息发送失败", "storeID", plan.StoreID, "error", err)
	}
}

func (h *Handler) RolloverReport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Source struct {
			Year  int             `json:"year" validate:"required"`
			Month int             `json:"month" validate:"required,min=1,max=12"`
			Type  domain.PlanType `json:"type" validate:"required,oneof=FIRST SECOND"`
		} `json:"source" validate:"required"`
		Target struct {
			Year  int             `json:"year" validate:"required"`
			Month int             `json:"month" validate:"required,min=1,max=12"`
			Type  domain.PlanType `json:"type" validate:"required,oneof=FIRST SECOND"`
		} `json:"target" validate:"required"`
		StoreID *int64 `json:"storeID"` // 省略时对比全部门店
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	sourceShifts, err := h.repository.GetShiftsByMonthAndType(h.config.TenantID, req.Source.Year, req.Source.Month, req.Source.Type, req.StoreID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	targetShifts, err := h.repository.GetShiftsByMonthAndType(h.config.TenantID, req.Target.Year, req.Target.Month, req.Target.Type, req.StoreID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	report, err := rollover.Map(r.Context(), sourceShifts, targetShifts)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "对比完成", report)
}
