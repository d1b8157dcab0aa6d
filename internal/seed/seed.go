package seed

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/storeops-dev/shift-scheduler/backend/internal/calendarx"
	"github.com/storeops-dev/shift-scheduler/backend/internal/config"
	"github.com/storeops-dev/shift-scheduler/backend/internal/domain"
	"github.com/storeops-dev/shift-scheduler/backend/internal/repository"
	"github.com/storeops-dev/shift-scheduler/backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

var demoStores = []struct {
	Name         string
	ManagerEmail string
}{
	{"新宿南口店", "shinjuku@example.com"},
	{"涩谷中心街店", "shibuya@example.com"},
	{"池袋东口店", "ikebukuro@example.com"},
	{"横滨站西口店", "yokohama@example.com"},
	{"大宫站前店", ""}, // 故意留一家没有店长邮箱的门店
}

// SeedStores 插入演示门店
func SeedStores(repo *repository.Repository, cfg *config.Config) []*domain.Store {
	stores := make([]*domain.Store, 0, len(demoStores))

	for _, ds := range demoStores {
		store := &domain.Store{
			TenantID:     cfg.TenantID,
			Name:         ds.Name,
			ManagerEmail: ds.ManagerEmail,
		}

		if err := repo.CreateStore(store); err != nil {
			slog.Error("插入门店失败", "name", ds.Name, "error", err)
			continue
		}

		stores = append(stores, store)
	}

	slog.Info("插入门店完成", "count", len(stores))
	return stores
}

// SeedStaff 为每家门店插入 n 名随机员工
func SeedStaff(repo *repository.Repository, cfg *config.Config, stores []*domain.Store, n int) []*domain.Staff {
	staff := make([]*domain.Staff, 0, len(stores)*n)

	for _, store := range stores {
		for i := 0; i < n; i++ {
			s := utils.GenerateRandomStaff(cfg.TenantID, store.ID)
			if err := repo.CreateStaff(s); err != nil {
				slog.Error("插入员工失败", "name", s.Name, "error", err)
				continue
			}

			staff = append(staff, s)
		}
	}

	slog.Info("插入员工完成", "count", len(staff))
	return staff
}

// SeedPreferences 为指定月份生成随机的希望班次
// 每名员工有若干 NG 日和若干希望时间段，两者不会落在同一天
func SeedPreferences(repo *repository.Repository, cfg *config.Config, staff []*domain.Staff, year int, month int) {
	daysInMonth := calendarx.DaysInMonth(year, month)
	cnt := 0

	for _, s := range staff {
		ngDays := utils.GenerateRandomDaySubset(daysInMonth, rand.Intn(4)+2)
		ngSet := make(map[int]bool, len(ngDays))

		for _, day := range ngDays {
			ngSet[day] = true
			pref := &domain.ShiftPreference{
				TenantID: cfg.TenantID,
				StaffID:  s.ID,
				StoreID:  s.StoreID,
				Date:     time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC),
				IsNG:     true,
			}

			if err := repo.CreateShiftPreference(pref); err != nil {
				slog.Error("插入 NG 日失败", "staff", s.Name, "day", day, "error", err)
				continue
			}
			cnt++
		}

		for _, day := range utils.GenerateRandomDaySubset(daysInMonth, rand.Intn(3)+1) {
			if ngSet[day] {
				continue
			}

			start, end := utils.GenerateRandomWindow()
			pref := &domain.ShiftPreference{
				TenantID:  cfg.TenantID,
				StaffID:   s.ID,
				StoreID:   s.StoreID,
				Date:      time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC),
				StartTime: &start,
				EndTime:   &end,
			}

			if err := repo.CreateShiftPreference(pref); err != nil {
				slog.Error("插入希望时间段失败", "staff", s.Name, "day", day, "error", err)
				continue
			}
			cnt++
		}
	}

	slog.Info("插入希望班次完成", "count", cnt)
}

// SeedSchedulerUser 插入一个排班员账号，方便演示时登录
func SeedSchedulerUser(repo *repository.Repository, cfg *config.Config) error {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(cfg.Seed.User.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("无法生成密码哈希: %w", err)
	}

	user := &domain.User{
		Username:     "scheduler",
		PasswordHash: string(passwordHash),
		FullName:     "演示排班员",
		Email:        "scheduler@example.com",
		Role:         domain.RoleScheduler,
	}

	if err := repo.CreateUser(user); err != nil {
		return fmt.Errorf("无法插入排班员账号: %w", err)
	}

	slog.Info("插入排班员账号完成", "username", user.Username)
	return nil
}
