package handler

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/storeops-dev/shift-scheduler/backend/internal/config"
	"github.com/storeops-dev/shift-scheduler/backend/internal/domain"
)

// Repository 抽出 handler 依赖的数据访问方法，测试时可以换成内存实现
type Repository interface {
	GetUserByUsername(username string) (*domain.User, error)
	GetActiveStoresByTenant(tenantID int64) ([]*domain.Store, error)
	GetStoreByID(id int64) (*domain.Store, error)
	GetActiveStaffByTenant(tenantID int64) ([]*domain.Staff, error)
	GetPreferencesByMonth(tenantID int64, year int, month int) ([]*domain.ShiftPreference, error)
	GetShiftPlansByMonth(tenantID int64, year int, month int) ([]*domain.ShiftPlan, error)
	GetShiftPlanByID(id int64) (*domain.ShiftPlan, error)
	GetShiftsByPlanID(planID int64) ([]*domain.Shift, error)
	GetShiftsByMonthAndType(tenantID int64, year int, month int, planType domain.PlanType, storeID *int64) ([]*domain.Shift, error)
	CreateShiftPlanWithShifts(plan *domain.ShiftPlan, shifts []*domain.Shift) error
	ReplaceShiftPlanWithShifts(plan *domain.ShiftPlan, shifts []*domain.Shift) error
}

// LockClient 是生成锁用到的 redis 命令子集
type LockClient interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// NotifyPublisher 是通知发布用到的 amqp 通道子集
type NotifyPublisher interface {
	PublishWithContext(ctx context.Context, exchange string, key string, mandatory bool, immediate bool, msg amqp.Publishing) error
}

type Handler struct {
	validate      *validator.Validate
	config        *config.Config
	repository    Repository
	translator    ut.Translator
	notifyChannel NotifyPublisher
	redisClient   LockClient

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo Repository, notifyCh NotifyPublisher, rdb LockClient) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:      validate,
		config:        cfg,
		repository:    repo,
		translator:    trans,
		notifyChannel: notifyCh,
		redisClient:   rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/stores", h.GetAllStores)

		r.Route("/shift-plans", func(r chi.Router) {
			r.Get("/", h.GetShiftPlansByMonth)

			// 生成和对比只有管理员和排班员可以操作，店长只能查看
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleScheduler})).Post("/draft", h.GenerateDraftPlans)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleScheduler})).Post("/rollover-report", h.RolloverReport)

			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.shiftPlan)
				r.Get("/", h.GetShiftPlanByID)
				r.Get("/shifts", h.GetShiftPlanShifts)
			})
		})
	})
}
