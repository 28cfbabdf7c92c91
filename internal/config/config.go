package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config is the top-level configuration tree, loaded once at startup.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	MySQL    MySQLConfig    `mapstructure:"mysql"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Business BusinessConfig `mapstructure:"business"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type MySQLConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	Brokers []string         `mapstructure:"brokers"`
	Topic   KafkaTopicConfig `mapstructure:"topic"`
}

type KafkaTopicConfig struct {
	SpendingEvents string `mapstructure:"spending_events"`
	GroupEvents    string `mapstructure:"group_events"`
}

type AuthConfig struct {
	Secret             string `mapstructure:"secret"`
	AccessTokenMinutes int    `mapstructure:"access_token_minutes"`
	RefreshTokenDays   int    `mapstructure:"refresh_token_days"`
}

type BusinessConfig struct {
	// Invitation codes expire this many minutes after issuance.
	InvitationTTLMinutes   int `mapstructure:"invitation_ttl_minutes"`
	InvitationSweepSeconds int `mapstructure:"invitation_sweep_seconds"`
	OutboxMaxRetryCount    int `mapstructure:"outbox_max_retry_count"`
}

var GlobalConfig *Config

// LoadConfig reads and parses the YAML config file, exiting on failure.
func LoadConfig(configPath string) *Config {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		log.Fatalf("failed to parse config file: %v", err)
	}

	if config.Business.InvitationTTLMinutes <= 0 {
		config.Business.InvitationTTLMinutes = 1440
	}
	if config.Business.InvitationSweepSeconds <= 0 {
		config.Business.InvitationSweepSeconds = 300
	}

	GlobalConfig = config
	return config
}
