package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/storeops-dev/shift-scheduler/backend/internal/config"
	"github.com/storeops-dev/shift-scheduler/backend/internal/domain"
)

// ── 测试辅助 ──

// fakeRepository 是内存版的数据访问层，按 (租户, 门店, 年月, 类型) 维护唯一索引
type fakeRepository struct {
	stores      []*domain.Store
	staff       []*domain.Staff
	preferences []*domain.ShiftPreference

	plans        map[string]*domain.ShiftPlan
	shiftsByPlan map[int64][]*domain.Shift
	nextPlanID   int64

	createCalls  int
	replaceCalls int
	failStoreID  int64 // 该门店落库时返回错误，模拟中途失败
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		plans:        make(map[string]*domain.ShiftPlan),
		shiftsByPlan: make(map[int64][]*domain.Shift),
	}
}

func planUniqueKey(plan *domain.ShiftPlan) string {
	return fmt.Sprintf("%d_%d_%04d%02d_%s", plan.TenantID, plan.StoreID, plan.PlanYear, plan.PlanMonth, plan.PlanType)
}

func (f *fakeRepository) GetUserByUsername(username string) (*domain.User, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeRepository) GetActiveStoresByTenant(tenantID int64) ([]*domain.Store, error) {
	return f.stores, nil
}

func (f *fakeRepository) GetStoreByID(id int64) (*domain.Store, error) {
	for _, store := range f.stores {
		if store.ID == id {
			return store, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeRepository) GetActiveStaffByTenant(tenantID int64) ([]*domain.Staff, error) {
	return f.staff, nil
}

func (f *fakeRepository) GetPreferencesByMonth(tenantID int64, year int, month int) ([]*domain.ShiftPreference, error) {
	return f.preferences, nil
}

func (f *fakeRepository) GetShiftPlansByMonth(tenantID int64, year int, month int) ([]*domain.ShiftPlan, error) {
	plans := make([]*domain.ShiftPlan, 0)
	for _, plan := range f.plans {
		if plan.TenantID == tenantID && plan.PlanYear == year && plan.PlanMonth == month {
			plans = append(plans, plan)
		}
	}
	return plans, nil
}

func (f *fakeRepository) GetShiftPlanByID(id int64) (*domain.ShiftPlan, error) {
	for _, plan := range f.plans {
		if plan.ID == id {
			return plan, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeRepository) GetShiftsByPlanID(planID int64) ([]*domain.Shift, error) {
	return f.shiftsByPlan[planID], nil
}

func (f *fakeRepository) GetShiftsByMonthAndType(tenantID int64, year int, month int, planType domain.PlanType, storeID *int64) ([]*domain.Shift, error) {
	shifts := make([]*domain.Shift, 0)
	for _, plan := range f.plans {
		if plan.TenantID != tenantID || plan.PlanYear != year || plan.PlanMonth != month || plan.PlanType != planType {
			continue
		}
		if storeID != nil && plan.StoreID != *storeID {
			continue
		}
		shifts = append(shifts, f.shiftsByPlan[plan.ID]...)
	}
	return shifts, nil
}

func (f *fakeRepository) CreateShiftPlanWithShifts(plan *domain.ShiftPlan, shifts []*domain.Shift) error {
	f.createCalls++
	if plan.StoreID == f.failStoreID {
		return errors.New("模拟的数据库故障")
	}
	if _, exists := f.plans[planUniqueKey(plan)]; exists {
		return &pgconn.PgError{ConstraintName: "shift_plans_tenant_store_month_type_key"}
	}

	f.nextPlanID++
	plan.ID = f.nextPlanID
	f.plans[planUniqueKey(plan)] = plan
	f.shiftsByPlan[plan.ID] = shifts
	return nil
}

func (f *fakeRepository) ReplaceShiftPlanWithShifts(plan *domain.ShiftPlan, shifts []*domain.Shift) error {
	f.replaceCalls++
	if plan.StoreID == f.failStoreID {
		return errors.New("模拟的数据库故障")
	}

	// 删除旧计划和旧班次后再插入，和真实实现的单事务语义一致
	if old, exists := f.plans[planUniqueKey(plan)]; exists {
		delete(f.shiftsByPlan, old.ID)
		delete(f.plans, planUniqueKey(plan))
	}

	f.nextPlanID++
	plan.ID = f.nextPlanID
	f.plans[planUniqueKey(plan)] = plan
	f.shiftsByPlan[plan.ID] = shifts
	return nil
}

type fakeLockClient struct {
	held map[string]bool
}

func newFakeLockClient() *fakeLockClient {
	return &fakeLockClient{held: make(map[string]bool)}
}

func (f *fakeLockClient) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	if f.held[key] {
		return redis.NewBoolResult(false, nil)
	}
	f.held[key] = true
	return redis.NewBoolResult(true, nil)
}

func (f *fakeLockClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(f.held, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

type fakeNotifyPublisher struct {
	published []domain.NotificationMessage
}

func (f *fakeNotifyPublisher) PublishWithContext(ctx context.Context, exchange string, key string, mandatory bool, immediate bool, msg amqp.Publishing) error {
	notification := domain.NotificationMessage{}
	if err := json.Unmarshal(msg.Body, &notification); err != nil {
		return err
	}
	f.published = append(f.published, notification)
	return nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.TenantID = 1
	cfg.Schedule.WeekdayMinHeadcount = 1
	cfg.Schedule.WeekdayMaxHeadcount = 1
	cfg.Schedule.WeekendMinHeadcount = 1
	cfg.Schedule.WeekendMaxHeadcount = 1
	cfg.Schedule.DefaultBreakMinutes = 60
	cfg.Schedule.LockExpiration = 300
	cfg.RabbitMQ.PublishTimeout = 1
	return cfg
}

func setupTestHandler(t *testing.T, repo *fakeRepository) (*Handler, *fakeLockClient, *fakeNotifyPublisher) {
	t.Helper()
	locks := newFakeLockClient()
	publisher := &fakeNotifyPublisher{}
	h, err := NewHandler(testConfig(), repo, publisher, locks)
	if err != nil {
		t.Fatalf("NewHandler 应成功: %v", err)
	}
	return h, locks, publisher
}

func postDraft(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/shift-plans/draft", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.GenerateDraftPlans(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	resp := Response{}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("响应解析失败: %v", err)
	}
	return resp
}

func draftRepo(storeIDs ...int64) *fakeRepository {
	repo := newFakeRepository()
	for _, storeID := range storeIDs {
		repo.stores = append(repo.stores, &domain.Store{
			ID: storeID, TenantID: 1, Name: fmt.Sprintf("门店%d", storeID), IsActive: true,
		})
		repo.staff = append(repo.staff, &domain.Staff{
			ID: storeID * 100, TenantID: 1, StoreID: storeID, Name: "测试员工",
			EmploymentType: domain.EmploymentFullTime, IsActive: true,
		})
	}
	return repo
}

// ── 生成落库测试 ──

func TestGenerateDraftPlans_PreviewDoesNotPersist(t *testing.T) {
	repo := draftRepo(1)
	h, _, _ := setupTestHandler(t, repo)

	resp := decodeResponse(t, postDraft(h, `{"year":2025,"month":9,"mode":"preview","seed":42}`))
	if !resp.Success {
		t.Fatalf("预览应成功: %s", resp.Message)
	}
	if repo.createCalls != 0 || repo.replaceCalls != 0 {
		t.Errorf("预览模式不应该落库: create=%d replace=%d", repo.createCalls, repo.replaceCalls)
	}
	if len(repo.plans) != 0 {
		t.Errorf("预览模式后不应该有计划入库，实际=%d", len(repo.plans))
	}
}

func TestGenerateDraftPlans_ApplyPersistsAndReleasesLock(t *testing.T) {
	repo := draftRepo(1)
	h, locks, _ := setupTestHandler(t, repo)

	resp := decodeResponse(t, postDraft(h, `{"year":2025,"month":9,"mode":"apply","seed":42}`))
	if !resp.Success {
		t.Fatalf("apply 应成功: %s", resp.Message)
	}
	if repo.createCalls != 1 {
		t.Errorf("期望落库1次，实际=%d", repo.createCalls)
	}
	if len(repo.plans) != 1 {
		t.Errorf("期望1份计划，实际=%d", len(repo.plans))
	}
	if len(locks.held) != 0 {
		t.Errorf("落库完成后生成锁应释放，实际还持有%d把", len(locks.held))
	}
}

func TestGenerateDraftPlans_ReplaceTwiceSingleLivePlan(t *testing.T) {
	repo := draftRepo(1)
	h, _, _ := setupTestHandler(t, repo)

	first := decodeResponse(t, postDraft(h, `{"year":2025,"month":9,"mode":"replace","seed":42}`))
	if !first.Success {
		t.Fatalf("第一次 replace 应成功: %s", first.Message)
	}
	second := decodeResponse(t, postDraft(h, `{"year":2025,"month":9,"mode":"replace","seed":43}`))
	if !second.Success {
		t.Fatalf("第二次 replace 应成功: %s", second.Message)
	}

	// 重复替换后每个门店每月只有一份存活的计划，旧班次全部被清掉
	if len(repo.plans) != 1 {
		t.Fatalf("期望1份存活计划，实际=%d", len(repo.plans))
	}
	if len(repo.shiftsByPlan) != 1 {
		t.Errorf("旧计划的班次应该被删除，实际还有%d份", len(repo.shiftsByPlan))
	}
	if repo.replaceCalls != 2 {
		t.Errorf("期望每次请求替换1次共2次，实际=%d", repo.replaceCalls)
	}
}

func TestGenerateDraftPlans_ApplyOnExistingFailsLoudly(t *testing.T) {
	repo := draftRepo(1)
	h, locks, _ := setupTestHandler(t, repo)

	first := decodeResponse(t, postDraft(h, `{"year":2025,"month":9,"mode":"apply","seed":42}`))
	if !first.Success {
		t.Fatalf("第一次 apply 应成功: %s", first.Message)
	}

	second := decodeResponse(t, postDraft(h, `{"year":2025,"month":9,"mode":"apply","seed":42}`))
	if second.Success {
		t.Fatal("对已存在的计划再次 apply 应该失败")
	}
	if !strings.Contains(second.Message, "已存在") {
		t.Errorf("错误信息应该提示计划已存在，实际=%s", second.Message)
	}
	if len(repo.plans) != 1 {
		t.Errorf("失败的 apply 不应该改动已有计划，实际=%d份", len(repo.plans))
	}
	if len(locks.held) != 0 {
		t.Errorf("失败后生成锁也应释放，实际还持有%d把", len(locks.held))
	}
}

func TestGenerateDraftPlans_FailureKeepsCommittedStores(t *testing.T) {
	repo := draftRepo(1, 2)
	repo.failStoreID = 2 // 第二家门店落库失败
	h, _, _ := setupTestHandler(t, repo)

	w := postDraft(h, `{"year":2025,"month":9,"mode":"apply","seed":42}`)
	resp := decodeResponse(t, w)
	if resp.Success {
		t.Fatal("部分门店落库失败时整体应该报错")
	}
	if w.Code != http.StatusInternalServerError {
		t.Errorf("期望状态码500，实际=%d", w.Code)
	}

	// 门店1已经提交的计划保持不动
	if len(repo.plans) != 1 {
		t.Fatalf("期望门店1的计划仍然存活，实际计划数=%d", len(repo.plans))
	}
	for _, plan := range repo.plans {
		if plan.StoreID != 1 {
			t.Errorf("存活的计划应属于门店1，实际=%d", plan.StoreID)
		}
	}
}

func TestGenerateDraftPlans_DuplicateStoreIDsRejected(t *testing.T) {
	repo := draftRepo(1)
	h, _, _ := setupTestHandler(t, repo)

	resp := decodeResponse(t, postDraft(h, `{"year":2025,"month":9,"storeIDs":[1,1],"mode":"apply","seed":42}`))
	if resp.Success {
		t.Fatal("重复的门店ID应该被拒绝")
	}
	if !strings.Contains(resp.Message, "重复") {
		t.Errorf("错误信息应该提示门店重复，实际=%s", resp.Message)
	}
	if repo.createCalls != 0 {
		t.Errorf("配置错误应该在任何写库之前被拦截，实际落库%d次", repo.createCalls)
	}
}

func TestGenerateDraftPlans_UnknownStoreRejected(t *testing.T) {
	repo := draftRepo(1)
	h, _, _ := setupTestHandler(t, repo)

	resp := decodeResponse(t, postDraft(h, `{"year":2025,"month":9,"storeIDs":[99],"mode":"apply","seed":42}`))
	if resp.Success {
		t.Fatal("不存在的门店ID应该被拒绝")
	}
	if repo.createCalls != 0 {
		t.Errorf("配置错误应该在任何写库之前被拦截，实际落库%d次", repo.createCalls)
	}
}

func TestGenerateDraftPlans_LockedStoreRejected(t *testing.T) {
	repo := draftRepo(1)
	h, locks, _ := setupTestHandler(t, repo)

	// 另一次生成正持有该门店该月的锁
	locks.held["shift_generate_lock_1_1_202509"] = true

	resp := decodeResponse(t, postDraft(h, `{"year":2025,"month":9,"mode":"apply","seed":42}`))
	if resp.Success {
		t.Fatal("持锁门店的生成请求应该被拒绝")
	}
	if !strings.Contains(resp.Message, "正在生成中") {
		t.Errorf("错误信息应该提示正在生成中，实际=%s", resp.Message)
	}
	if len(repo.plans) != 0 {
		t.Errorf("被锁拒绝的请求不应该落库，实际=%d份", len(repo.plans))
	}
}

func TestGenerateDraftPlans_NotifiesManager(t *testing.T) {
	repo := draftRepo(1, 2)
	repo.stores[0].ManagerEmail = "manager1@example.com"
	// 门店2没有店长邮箱，不应该发通知
	h, _, publisher := setupTestHandler(t, repo)

	resp := decodeResponse(t, postDraft(h, `{"year":2025,"month":9,"mode":"apply","seed":42}`))
	if !resp.Success {
		t.Fatalf("apply 应成功: %s", resp.Message)
	}

	if len(publisher.published) != 1 {
		t.Fatalf("期望发出1条通知，实际=%d", len(publisher.published))
	}
	notification := publisher.published[0]
	if notification.Type != "draft_generated" {
		t.Errorf("期望通知类型draft_generated，实际=%s", notification.Type)
	}
	if notification.To != "manager1@example.com" {
		t.Errorf("期望收件人manager1@example.com，实际=%s", notification.To)
	}
}
