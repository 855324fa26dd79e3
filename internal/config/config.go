package config

import (
	"fmt"
	"os"
	"strconv"
)

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// GetDSN 获取数据库连接字符串
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// Config 边缘模拟服务配置
type Config struct {
	// 数据库（患者档案 + 认知会话记录存储）
	DBEnabled bool
	Database  DatabaseConfig

	// Redis（最新会话缓存）
	Redis struct {
		Enabled  bool
		Addr     string
		Password string
		DB       int
	}

	// 最新会话缓存键配置
	Cache struct {
		LatestKeyPrefix string // 如 "cognitive:patient:"
		LatestSuffix    string // 如 ":latest"
		LatestTTL       int    // TTL（秒）
	}

	// 边缘连接器（下游摄入端点）
	EdgeConnector struct {
		Enabled      bool
		URL          string // 如 "https://edge-connector.example.com/api/ingest_data"
		FunctionCode string // 函数级访问密钥（附加为 ?code=...）
		TimeoutSec   int
		RetryCount   int
	}

	// MQTT（可选的记录发布通道）
	MQTT struct {
		Enabled  bool
		Broker   string // 如 "tcp://localhost:1883"
		ClientID string
		Username string
		Password string
		Topic    string
		QoS      byte
	}

	// 模拟默认参数（可被命令行覆盖）
	Sim struct {
		Patients          int
		Days              int
		StartDate         string // YYYY-MM-DD
		Seed              int64  // 0 = 非确定性
		OutputDir         string
		ProfilesPath      string
		UseAllProfiles    bool
		AllowSynthetic    bool
		StrictCount       bool
		RecordsPerPatient int // historical 模式每患者记录数
		StreamIntervalSec int // stream 模式生成间隔
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load 从环境变量加载配置（含默认值）
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.DBEnabled = getEnv("DB_ENABLED", "false") == "true"
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "carehaven")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "10"), 10)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "5"), 5)

	cfg.Redis.Enabled = getEnv("REDIS_ENABLED", "false") == "true"
	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)

	cfg.Cache.LatestKeyPrefix = getEnv("CACHE_LATEST_PREFIX", "cognitive:patient:")
	cfg.Cache.LatestSuffix = ":latest"
	cfg.Cache.LatestTTL = parseInt(getEnv("CACHE_LATEST_TTL", "86400"), 86400)

	cfg.EdgeConnector.Enabled = getEnv("EDGE_CONNECTOR_ENABLED", "false") == "true"
	cfg.EdgeConnector.URL = getEnv("EDGE_CONNECTOR_URL", "")
	cfg.EdgeConnector.FunctionCode = getEnv("EDGE_CONNECTOR_FUNCTION_CODE", "")
	cfg.EdgeConnector.TimeoutSec = parseInt(getEnv("EDGE_CONNECTOR_TIMEOUT", "30"), 30)
	cfg.EdgeConnector.RetryCount = parseInt(getEnv("EDGE_CONNECTOR_RETRIES", "3"), 3)

	cfg.MQTT.Enabled = getEnv("MQTT_ENABLED", "false") == "true"
	cfg.MQTT.Broker = getEnv("MQTT_BROKER", "tcp://localhost:1883")
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", "carehaven-edgesim")
	cfg.MQTT.Username = getEnv("MQTT_USERNAME", "")
	cfg.MQTT.Password = getEnv("MQTT_PASSWORD", "")
	cfg.MQTT.Topic = getEnv("MQTT_TOPIC", "carehaven/cognitive-sessions")
	cfg.MQTT.QoS = byte(parseInt(getEnv("MQTT_QOS", "1"), 1))

	cfg.Sim.Patients = parseInt(getEnv("SIM_PATIENTS", "1000"), 1000)
	cfg.Sim.Days = parseInt(getEnv("SIM_DAYS", "30"), 30)
	cfg.Sim.StartDate = getEnv("SIM_START_DATE", "2025-09-01")
	cfg.Sim.Seed = parseInt64(getEnv("SIM_SEED", "0"), 0)
	cfg.Sim.OutputDir = getEnv("SIM_OUTPUT_DIR", "data")
	cfg.Sim.ProfilesPath = getEnv("SIM_PROFILES_PATH", "")
	cfg.Sim.UseAllProfiles = getEnv("SIM_USE_ALL_PROFILES", "false") == "true"
	cfg.Sim.AllowSynthetic = getEnv("SIM_ALLOW_SYNTHETIC", "false") == "true"
	cfg.Sim.StrictCount = getEnv("SIM_STRICT_COUNT", "false") == "true"
	cfg.Sim.RecordsPerPatient = parseInt(getEnv("SIM_RECORDS_PER_PATIENT", "5"), 5)
	cfg.Sim.StreamIntervalSec = parseInt(getEnv("SIM_STREAM_INTERVAL", "20"), 20)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt(value string, defaultValue int) int {
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	return defaultValue
}

func parseInt64(value string, defaultValue int64) int64 {
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n
	}
	return defaultValue
}
