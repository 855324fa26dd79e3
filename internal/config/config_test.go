package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	// 清除环境变量
	os.Clearenv()

	cfg, err := Load()
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	// 验证默认值
	assert.False(t, cfg.DBEnabled)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "postgres", cfg.Database.User)
	assert.Equal(t, "carehaven", cfg.Database.Database)
	assert.Equal(t, "disable", cfg.Database.SSLMode)

	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 0, cfg.Redis.DB)

	assert.Equal(t, "cognitive:patient:", cfg.Cache.LatestKeyPrefix)
	assert.Equal(t, ":latest", cfg.Cache.LatestSuffix)
	assert.Equal(t, 86400, cfg.Cache.LatestTTL)

	assert.False(t, cfg.EdgeConnector.Enabled)
	assert.Equal(t, 30, cfg.EdgeConnector.TimeoutSec)
	assert.Equal(t, 3, cfg.EdgeConnector.RetryCount)

	assert.Equal(t, "tcp://localhost:1883", cfg.MQTT.Broker)
	assert.Equal(t, "carehaven-edgesim", cfg.MQTT.ClientID)
	assert.Equal(t, "carehaven/cognitive-sessions", cfg.MQTT.Topic)

	assert.Equal(t, 1000, cfg.Sim.Patients)
	assert.Equal(t, 30, cfg.Sim.Days)
	assert.Equal(t, "2025-09-01", cfg.Sim.StartDate)
	assert.Equal(t, int64(0), cfg.Sim.Seed)
	assert.Equal(t, "data", cfg.Sim.OutputDir)
	assert.Equal(t, 5, cfg.Sim.RecordsPerPatient)
	assert.Equal(t, 20, cfg.Sim.StreamIntervalSec)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	os.Clearenv()
	os.Setenv("DB_ENABLED", "true")
	os.Setenv("DB_HOST", "test-host")
	os.Setenv("DB_NAME", "test-db")
	os.Setenv("REDIS_ENABLED", "true")
	os.Setenv("REDIS_ADDR", "test-redis:6380")
	os.Setenv("EDGE_CONNECTOR_ENABLED", "true")
	os.Setenv("EDGE_CONNECTOR_URL", "https://edge.example.com/api/ingest_data")
	os.Setenv("EDGE_CONNECTOR_FUNCTION_CODE", "secret-code")
	os.Setenv("SIM_PATIENTS", "25")
	os.Setenv("SIM_DAYS", "7")
	os.Setenv("SIM_SEED", "42")
	os.Setenv("SIM_STRICT_COUNT", "true")
	os.Setenv("LOG_LEVEL", "debug")
	defer os.Clearenv()

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.DBEnabled)
	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, "test-db", cfg.Database.Database)

	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "test-redis:6380", cfg.Redis.Addr)

	assert.True(t, cfg.EdgeConnector.Enabled)
	assert.Equal(t, "https://edge.example.com/api/ingest_data", cfg.EdgeConnector.URL)
	assert.Equal(t, "secret-code", cfg.EdgeConnector.FunctionCode)

	assert.Equal(t, 25, cfg.Sim.Patients)
	assert.Equal(t, 7, cfg.Sim.Days)
	assert.Equal(t, int64(42), cfg.Sim.Seed)
	assert.True(t, cfg.Sim.StrictCount)

	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestGetDSN(t *testing.T) {
	c := DatabaseConfig{
		Host:     "db-host",
		Port:     5433,
		User:     "u",
		Password: "p",
		Database: "carehaven",
		SSLMode:  "disable",
	}

	dsn := c.GetDSN()
	assert.Equal(t, "host=db-host port=5433 user=u password=p dbname=carehaven sslmode=disable", dsn)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	os.Clearenv()
	os.Setenv("SIM_PATIENTS", "not-a-number")
	defer os.Clearenv()

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.Sim.Patients)
}
