package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/storeops-dev/shift-scheduler/backend/internal/config"
	"github.com/storeops-dev/shift-scheduler/backend/internal/repository"
	"github.com/storeops-dev/shift-scheduler/backend/internal/seed"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var year int
	var month int

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入演示门店和员工, 2: 插入随机希望班次, 3: 插入排班员账号, 4: 一键插入全部演示数据)")
	flag.IntVar(&n, "n", 8, "每家门店插入的员工数量")
	flag.IntVar(&year, "year", 0, "希望班次所属的年份")
	flag.IntVar(&month, "month", 0, "希望班次所属的月份")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 没传年月时默认使用下个月，第一案通常是为下个月排的
	if year == 0 || month == 0 {
		next := time.Now().AddDate(0, 1, 0)
		year = next.Year()
		month = int(next.Month())
	}

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的员工数量")
			return
		}

		stores := seed.SeedStores(repo, cfg)
		seed.SeedStaff(repo, cfg, stores, n)
	case 2:
		staff, err := repo.GetActiveStaffByTenant(cfg.TenantID)
		if err != nil {
			slog.Error("无法获取员工列表", slog.String("error", err.Error()))
			return
		}
		if len(staff) == 0 {
			slog.Error("数据库中没有员工，请先执行 op=1")
			return
		}

		seed.SeedPreferences(repo, cfg, staff, year, month)
	case 3:
		if err := seed.SeedSchedulerUser(repo, cfg); err != nil {
			slog.Error("无法插入排班员账号", slog.String("error", err.Error()))
		}
	case 4:
		stores := seed.SeedStores(repo, cfg)
		staff := seed.SeedStaff(repo, cfg, stores, n)
		seed.SeedPreferences(repo, cfg, staff, year, month)
		if err := seed.SeedSchedulerUser(repo, cfg); err != nil {
			slog.Error("无法插入排班员账号", slog.String("error", err.Error()))
		}
	default:
		slog.Error("指定的操作非法")
	}
}
