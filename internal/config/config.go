package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	TenantID    int64  `env:"TENANT_ID" envDefault:"1"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"30"` // 生成整月排班可能比较慢，这里设置长一点
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Database struct {
		DSN                string `env:"DSN,required"`
		ConnectTimeout     int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout       int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		TransactionTimeout int    `env:"TRANSACTION_TIMEOUT" envDefault:"30"`
		MaxOpenConns       int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns       int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime        int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	InitialAdmin struct {
		Username string `env:"USERNAME" envDefault:"admin"`
		Password string `env:"PASSWORD,required"`
		FullName string `env:"FULL_NAME" envDefault:"管理员"`
		Email    string `env:"EMAIL,required"`
	} `envPrefix:"INITIAL_ADMIN_"`
	JWT struct {
		Expiration int    `env:"EXPIRATION" envDefault:"1209600"` // 14 天
		Secret     string `env:"SECRET,required"`
	} `envPrefix:"JWT_"`
	// 排班生成的参数，不要把这些写死在代码里
	Schedule struct {
		WeekdayMinHeadcount int `env:"WEEKDAY_MIN_HEADCOUNT" envDefault:"2"`
		WeekdayMaxHeadcount int `env:"WEEKDAY_MAX_HEADCOUNT" envDefault:"4"`
		WeekendMinHeadcount int `env:"WEEKEND_MIN_HEADCOUNT" envDefault:"4"`
		WeekendMaxHeadcount int `env:"WEEKEND_MAX_HEADCOUNT" envDefault:"6"`
		DefaultBreakMinutes int `env:"DEFAULT_BREAK_MINUTES" envDefault:"60"`
		// 生成锁的过期时间（秒），防止进程异常退出后锁一直残留
		LockExpiration int `env:"LOCK_EXPIRATION" envDefault:"300"`
	} `envPrefix:"SCHEDULE_"`
	Seed struct {
		User struct {
			Password string `env:"PASSWORD,required"`
		} `envPrefix:"USER_"`
	} `envPrefix:"SEED_"`
	Email struct {
		SMTP struct {
			Username    string `env:"USERNAME,required"`
			Password    string `env:"PASSWORD,required"`
			Host        string `env:"HOST,required"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
	RabbitMQ struct {
		DSN            string `env:"DSN,required"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Redis struct {
		Host           string `env:"HOST" envDefault:"localhost"`
		Port           int    `env:"PORT" envDefault:"6379"`
		Password       string `env:"PASSWORD,required"`
		ConnectTimeout int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
	} `envPrefix:"REDIS_"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// 只返回第一个错误使得日志更清晰
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate 在启动时把排班参数的配置错误拦下来，不要等到第一次生成才暴露
func (c *Config) validate() error {
	if c.TenantID <= 0 {
		return fmt.Errorf("租户ID %d 无效", c.TenantID)
	}
	if c.Schedule.WeekdayMinHeadcount < 0 || c.Schedule.WeekdayMinHeadcount > c.Schedule.WeekdayMaxHeadcount {
		return fmt.Errorf("工作日需要人数区间 [%d, %d] 无效",
			c.Schedule.WeekdayMinHeadcount, c.Schedule.WeekdayMaxHeadcount)
	}
	if c.Schedule.WeekendMinHeadcount < 0 || c.Schedule.WeekendMinHeadcount > c.Schedule.WeekendMaxHeadcount {
		return fmt.Errorf("周末需要人数区间 [%d, %d] 无效",
			c.Schedule.WeekendMinHeadcount, c.Schedule.WeekendMaxHeadcount)
	}
	if c.Schedule.DefaultBreakMinutes < 0 {
		return fmt.Errorf("默认休息时间 %d 分钟无效", c.Schedule.DefaultBreakMinutes)
	}
	if c.Schedule.LockExpiration <= 0 {
		return fmt.Errorf("生成锁过期时间 %d 秒无效", c.Schedule.LockExpiration)
	}
	return nil
}
