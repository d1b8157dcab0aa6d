package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/storeops-dev/shift-scheduler/backend/internal/config"
	"github.com/storeops-dev/shift-scheduler/backend/internal/domain"
	"github.com/storeops-dev/shift-scheduler/backend/internal/handler"
	"github.com/storeops-dev/shift-scheduler/backend/internal/repository"
	"golang.org/x/crypto/bcrypt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const notifyQueueName = "shift_notification_queue"

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 配置里包含排班参数的校验，区间写反会在这里直接退出
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("加载配置失败", "error", err)
		os.Exit(1)
	}

	dbpool, err := openDatabase(cfg)
	if err != nil {
		logger.Error("连接数据库失败", "error", err)
		os.Exit(1)
	}
	defer dbpool.Close()

	repo := repository.NewRepository(cfg, dbpool)

	if err := ensureInitialAdmin(repo, cfg); err != nil {
		logger.Error("创建初始管理员失败", "error", err)
		os.Exit(1)
	}

	conn, notifyCh, err := openNotifyChannel(cfg)
	if err != nil {
		logger.Error("连接 RabbitMQ 失败", "error", err)
		os.Exit(1)
	}
	defer conn.Close()
	defer notifyCh.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
	})
	defer rdb.Close()

	h, err := handler.NewHandler(cfg, repo, notifyCh, rdb)
	if err != nil {
		logger.Error("初始化 handler 失败", "error", err)
		os.Exit(1)
	}
	h.RegisterRoutes()

	serve(cfg, h.Mux, logger)
}

func openDatabase(cfg *config.Config) (*sql.DB, error) {
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	// sql.Open 不会验证连接，ping 一下让坏 DSN 在启动时就暴露
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()
	if err := dbpool.PingContext(ctx); err != nil {
		dbpool.Close()
		return nil, err
	}

	return dbpool, nil
}

// ensureInitialAdmin 保证管理员账号存在，已存在时是空操作
func ensureInitialAdmin(repo *repository.Repository, cfg *config.Config) error {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(cfg.InitialAdmin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &domain.User{
		Username:     cfg.InitialAdmin.Username,
		PasswordHash: string(passwordHash),
		FullName:     cfg.InitialAdmin.FullName,
		Email:        cfg.InitialAdmin.Email,
		Role:         domain.RoleAdmin,
	}

	err = repo.CreateUser(admin)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.ConstraintName == "users_username_key" {
		// 账号已经在库里了
		return nil
	}
	return err
}

func openNotifyChannel(cfg *config.Config) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		return nil, nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, err
	}

	if _, err := ch.QueueDeclare(notifyQueueName, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, err
	}

	return conn, ch, nil
}

func serve(cfg *config.Config, mux http.Handler, logger *slog.Logger) {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      mux,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("服务器启动", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("服务器异常退出", "error", err)
		}
	}()

	<-quit
	logger.Info("收到退出信号，正在关闭服务器")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("关闭服务器失败", "error", err)
		return
	}
	logger.Info("服务器已关闭")
}
