// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"./migrations"`
	SiteURL                 string `yaml:"site_url" env-default:"http://localhost:8080"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	RabbitMQ                `yaml:"rabbitmq"`
	SMTP                    `yaml:"smtp"`
	Stripe                  `yaml:"stripe"`
	Scheduler               `yaml:"scheduler"`
	RateLimit               `yaml:"rate_limit"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
	CourseTTL    time.Duration `yaml:"course_ttl" env-default:"1h"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// RabbitMQ структура для подключения к брокеру уведомлений
type RabbitMQ struct {
	RabbitMQURL        string        `yaml:"url" env:"RABBITMQ_URL"`
	RabbitMQMaxRetries int           `yaml:"max_retries" env-default:"5"`
	RabbitMQRetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// SMTP структура для отправки писем
type SMTP struct {
	SMTPHost string `yaml:"host"`
	SMTPPort string `yaml:"port" env-default:"587"`
	SMTPUser string `yaml:"user"`
	SMTPPass string `yaml:"password" env:"SMTP_PASSWORD"`
}

// Stripe структура для подключения к платёжному провайдеру
type Stripe struct {
	StripeSecretKey     string `yaml:"secret_key" env:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `yaml:"webhook_secret" env:"STRIPE_WEBHOOK_SECRET"`
	Currency            string `yaml:"currency" env-default:"usd"`
	SuccessURL          string `yaml:"success_url" env-default:"http://localhost:8080/api/v1/payments/success"`
	CancelURL           string `yaml:"cancel_url" env-default:"http://localhost:8080/api/v1/payments/cancel"`
}

// Scheduler структура с расписанием фоновых задач
type Scheduler struct {
	PendingNotificationsSpec string        `yaml:"pending_notifications_spec" env-default:"0 * * * *"`
	InactiveUsersSpec        string        `yaml:"inactive_users_spec" env-default:"0 0 * * *"`
	InactiveAfter            time.Duration `yaml:"inactive_after" env-default:"720h"`
	LessonQuietPeriod        time.Duration `yaml:"lesson_quiet_period" env-default:"4h"`
}

// RateLimit структура для ограничения частоты запросов
type RateLimit struct {
	RPS   float64 `yaml:"rps" env-default:"10"`
	Burst int     `yaml:"burst" env-default:"20"`
}

// MustLoad функция для загрузки конфига, путь к файлу берётся из CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}

// String выводит конфиг без секретов, пригоден для логов.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"JWTToken:\n"+
			"  TokenTTL: %s\n"+
			"Stripe:\n"+
			"  Currency: %s\n",
		c.Env,
		c.AddressRedis,
		c.DB,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.TokenTTL,
		c.Currency,
	)
}
