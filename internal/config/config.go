package config

import (
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type ShiftConfig struct {
	Env          string `yaml:"env"`
	HTTPServer   `yaml:"http_server"`
	ShiftDB      `yaml:"shift_db"`
	LogConfig    `yaml:"log_config"`
	KafkaService `yaml:"kafka-service"`
	OrderService `yaml:"order-service"`
	Attendance   `yaml:"attendance"`
	Settlement   `yaml:"settlement"`
	Cache        `yaml:"cache"`
}

type HTTPServer struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type ShiftDB struct {
	Dsn            string `yaml:"dsn"`
	MigrationsPath string `yaml:"migrations_path"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogOutput string `yaml:"log_output"`
}

type KafkaService struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type OrderService struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type Attendance struct {
	// DayBoundaryHour splits ambiguous opens between yesterday's
	// overnight window and today's.
	DayBoundaryHour int `yaml:"day_boundary_hour" env-default:"6"`
	// MaxShiftHours bounds how long a shift may stay open before the
	// stale-shift monitor force-closes it.
	MaxShiftHours int `yaml:"max_shift_hours" env-default:"16"`
}

type Settlement struct {
	Workers int `yaml:"workers" env-default:"4"`
	// IntervalMinutes is how often the batch looks for unsettled
	// attendance of the prior day.
	IntervalMinutes int `yaml:"interval_minutes" env-default:"60"`
}

type Cache struct {
	RefreshSeconds int `yaml:"refresh_seconds" env-default:"60"`
}

func MustLoad() *ShiftConfig {

	// Processing env config variable and file
	configPath := os.Getenv("SHIFT_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("SHIFT_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg ShiftConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
