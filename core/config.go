package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

type (
	Config struct {
		AppName      string
		Env          string
		Debug        bool
		TestMode     bool
		LogMode      string
		RollbarToken string
		Build        string

		Storage StorageConfig
		Share   ShareConfig
		Server  ServerConfig
		Export  ExportConfig
	}

	StorageConfig struct {
		Driver    string
		Path      string // file & sqlite drivers
		Namespace string // key prefix, shared by all drivers
		Timeout   time.Duration

		Database DatabaseConfig
		Redis    RedisConfig
	}

	DatabaseConfig struct {
		Host       string
		Port       string
		Name       string
		User       string
		Password   string
		DisableTLS bool
	}

	RedisConfig struct {
		Addr     string
		Password string
		DB       int
	}

	ShareConfig struct {
		BaseURL string
		Param   string
	}

	ServerConfig struct {
		Host            string
		DebugHost       string
		ShutdownTimeout time.Duration
	}

	ExportConfig struct {
		Title    string
		FontPath string // optional TTF used by the trend chart
	}
)

func (dbConf DatabaseConfig) Address() string {
	return dbConf.Host + ":" + dbConf.Port
}

// NewConfig loads the configuration from defaults, `config/.env.<env>` and the environment.
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("appName", "GPA Calculator")
	conf.SetDefault("debug", false)
	conf.SetDefault("testMode", false)
	conf.SetDefault("logMode", "dev")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("build", "dev")
	conf.SetDefault("storageDriver", StorageFile)
	conf.SetDefault("storagePath", defaultStoragePath())
	conf.SetDefault("storageNamespace", "gpacalc")
	conf.SetDefault("storageTimeout", 3*time.Second)
	conf.SetDefault("databaseHost", "localhost")
	conf.SetDefault("databasePort", "5432")
	conf.SetDefault("databaseName", "gpacalc")
	conf.SetDefault("databaseUser", "postgres")
	conf.SetDefault("databasePassword", "")
	conf.SetDefault("databaseDisableTLS", true)
	conf.SetDefault("redisAddr", "localhost:6379")
	conf.SetDefault("redisPassword", "")
	conf.SetDefault("redisDB", 0)
	conf.SetDefault("shareBaseURL", "http://localhost:8000/")
	conf.SetDefault("shareParam", "data")
	conf.SetDefault("serverHost", ":8000")
	conf.SetDefault("serverDebugHost", ":4000")
	conf.SetDefault("serverShutdownTimeout", 5*time.Second)
	conf.SetDefault("exportTitle", "Namal University GPA Report")
	conf.SetDefault("exportFontPath", "")

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, PROD
	switch env {
	case "":
		env = "DEV"
		conf.SetDefault("debug", true)
	case "TEST":
		conf.SetDefault("testMode", true)
		conf.SetDefault("storageDriver", StorageMemory)
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		AppName:      conf.GetString("appName"),
		Env:          env,
		Debug:        conf.GetBool("debug"),
		TestMode:     conf.GetBool("testMode"),
		LogMode:      conf.GetString("logMode"),
		RollbarToken: conf.GetString("rollbarToken"),
		Build:        conf.GetString("build"),
		Storage: StorageConfig{
			Driver:    strings.ToLower(conf.GetString("storageDriver")),
			Path:      conf.GetString("storagePath"),
			Namespace: conf.GetString("storageNamespace"),
			Timeout:   conf.GetDuration("storageTimeout"),
			Database: DatabaseConfig{
				Host:       conf.GetString("databaseHost"),
				Port:       conf.GetString("databasePort"),
				Name:       conf.GetString("databaseName"),
				User:       conf.GetString("databaseUser"),
				Password:   conf.GetString("databasePassword"),
				DisableTLS: conf.GetBool("databaseDisableTLS"),
			},
			Redis: RedisConfig{
				Addr:     conf.GetString("redisAddr"),
				Password: conf.GetString("redisPassword"),
				DB:       conf.GetInt("redisDB"),
			},
		},
		Share: ShareConfig{
			BaseURL: conf.GetString("shareBaseURL"),
			Param:   conf.GetString("shareParam"),
		},
		Server: ServerConfig{
			Host:            conf.GetString("serverHost"),
			DebugHost:       conf.GetString("serverDebugHost"),
			ShutdownTimeout: conf.GetDuration("serverShutdownTimeout"),
		},
		Export: ExportConfig{
			Title:    conf.GetString("exportTitle"),
			FontPath: conf.GetString("exportFontPath"),
		},
	}
}

func defaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "gpacalc")
}
