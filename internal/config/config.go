package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type CoreConfig struct {
	Env       string `yaml:"env" env-default:"local"`
	API       `yaml:"api"`
	Socket    `yaml:"socket"`
	Orders    `yaml:"orders"`
	Chat      `yaml:"chat"`
	LogConfig `yaml:"log_config"`
	Metrics   `yaml:"metrics"`
}

type API struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds" env-default:"10"`
}

func (a API) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

type Socket struct {
	URL                     string `yaml:"url"`
	HandshakeTimeoutSeconds int    `yaml:"handshake_timeout_seconds" env-default:"10"`
}

func (s Socket) HandshakeTimeout() time.Duration {
	return time.Duration(s.HandshakeTimeoutSeconds) * time.Second
}

type Orders struct {
	ServiceFeeRate         float64 `yaml:"service_fee_rate" env-default:"0.05"`
	AutoCompleteGraceHours int     `yaml:"auto_complete_grace_hours" env-default:"72"`
	RescanSeconds          int     `yaml:"rescan_seconds" env-default:"30"`
	ResyncSeconds          int     `yaml:"resync_seconds" env-default:"300"`
}

func (o Orders) AutoCompleteGrace() time.Duration {
	return time.Duration(o.AutoCompleteGraceHours) * time.Hour
}

func (o Orders) RescanInterval() time.Duration {
	return time.Duration(o.RescanSeconds) * time.Second
}

func (o Orders) ResyncInterval() time.Duration {
	return time.Duration(o.ResyncSeconds) * time.Second
}

type Chat struct {
	TypingTimeoutSeconds int `yaml:"typing_timeout_seconds" env-default:"4"`
}

func (c Chat) TypingTimeout() time.Duration {
	return time.Duration(c.TypingTimeoutSeconds) * time.Second
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env-default:"info"`
	LogFormat string `yaml:"log_format" env-default:"text"`
}

type Metrics struct {
	Addr string `yaml:"addr" env-default:""`
}

func MustLoad() *CoreConfig {

	// Processing env config variable and file
	configPath := os.Getenv("SYNC_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("SYNC_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg CoreConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
