package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type OrderConfig struct {
	Env         string `yaml:"env"`
	HTTPServer  `yaml:"http_server"`
	OrderDB     `yaml:"order_db"`
	LogConfig   `yaml:"log_config"`
	Stripe      `yaml:"stripe"`
	KafkaService `yaml:"kafka-service"`
	AccountService `yaml:"account-service"`
	Notifier    `yaml:"notifier"`
	Auth        `yaml:"auth"`
	Maintenance `yaml:"maintenance"`
}

type HTTPServer struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type OrderDB struct {
	Dsn            string `yaml:"dsn"`
	MigrationsPath string `yaml:"migrations_path"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogOutput string `yaml:"log_output"`
}

type Stripe struct {
	SecretKey     string        `yaml:"secret_key" env:"STRIPE_SECRET_KEY"`
	WebhookSecret string        `yaml:"webhook_secret" env:"STRIPE_WEBHOOK_SECRET"`
	SuccessURL    string        `yaml:"success_url"`
	CancelURL     string        `yaml:"cancel_url"`
	Currency      string        `yaml:"currency" env-default:"usd"`
	Timeout       time.Duration `yaml:"timeout" env-default:"10s"`
}

type KafkaService struct {
	Host  string `yaml:"host"`
	Port  string `yaml:"port"`
	Topic string `yaml:"topic" env-default:"order-events"`
}

type AccountService struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type Notifier struct {
	URL string `yaml:"url"`
}

type Auth struct {
	JWTSecret string `yaml:"jwt_secret" env:"ORDER_JWT_SECRET"`
}

type Maintenance struct {
	StalePendingTTL time.Duration `yaml:"stale_pending_ttl" env-default:"24h"`
	SweepInterval   time.Duration `yaml:"sweep_interval" env-default:"10m"`
}

func MustLoad() *OrderConfig {

	// Processing env config variable and file
	configPath := os.Getenv("ORDER_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("ORDER_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg OrderConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
