package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"carehaven-edgesim/internal/config"
	"carehaven-edgesim/internal/models"
)

func setupTestCache(t *testing.T) (*miniredis.Miniredis, *SessionCache) {
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cfg := &config.Config{}
	cfg.Cache.LatestKeyPrefix = "cognitive:patient:"
	cfg.Cache.LatestSuffix = ":latest"
	cfg.Cache.LatestTTL = 60

	logger := zap.NewNop()
	cache := NewSessionCache(cfg, NewRedisKV(redisClient), logger)

	return mr, cache
}

func TestSessionCache_PutGetLatest(t *testing.T) {
	_, cache := setupTestCache(t)
	ctx := context.Background()

	session := &models.CognitiveSession{
		DeviceID:    "SPK-001",
		PatientID:   "patient-123",
		SessionDate: "2025-09-01T08:30:00Z",
		Memory: models.MemoryMetrics{
			ImmediateRecall: 4,
			DelayedRecall:   3,
		},
		MoodBehavior: models.MoodBehaviorMetrics{
			SentimentScore:     0.62,
			NarrativeCoherence: 0.7,
		},
	}

	err := cache.PutLatest(ctx, session)
	require.NoError(t, err)

	got, err := cache.GetLatest(ctx, "patient-123")
	require.NoError(t, err)
	assert.Equal(t, "SPK-001", got.DeviceID)
	assert.Equal(t, "2025-09-01T08:30:00Z", got.SessionDate)
	assert.Equal(t, 4, got.Memory.ImmediateRecall)
	assert.Equal(t, 3, got.Memory.DelayedRecall)
	assert.Equal(t, 0.62, got.MoodBehavior.SentimentScore)
}

func TestSessionCache_GetLatest_Miss(t *testing.T) {
	_, cache := setupTestCache(t)
	ctx := context.Background()

	got, err := cache.GetLatest(ctx, "patient-not-exist")

	assert.ErrorIs(t, err, ErrMiss)
	assert.Nil(t, got)
}

func TestSessionCache_PutLatest_Overwrite(t *testing.T) {
	_, cache := setupTestCache(t)
	ctx := context.Background()

	first := &models.CognitiveSession{
		PatientID:   "patient-123",
		SessionDate: "2025-09-01T08:30:00Z",
	}
	second := &models.CognitiveSession{
		PatientID:   "patient-123",
		SessionDate: "2025-09-02T09:10:00Z",
	}

	require.NoError(t, cache.PutLatest(ctx, first))
	require.NoError(t, cache.PutLatest(ctx, second))

	got, err := cache.GetLatest(ctx, "patient-123")
	require.NoError(t, err)
	assert.Equal(t, "2025-09-02T09:10:00Z", got.SessionDate)
}

func TestSessionCache_TTLExpiry(t *testing.T) {
	mr, cache := setupTestCache(t)
	ctx := context.Background()

	session := &models.CognitiveSession{
		PatientID:   "patient-123",
		SessionDate: "2025-09-01T08:30:00Z",
	}
	require.NoError(t, cache.PutLatest(ctx, session))

	mr.FastForward(61 * time.Second)

	_, err := cache.GetLatest(ctx, "patient-123")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestSessionCache_ListPatients(t *testing.T) {
	_, cache := setupTestCache(t)
	ctx := context.Background()

	for _, pid := range []string{"patient-003", "patient-001", "patient-002"} {
		require.NoError(t, cache.PutLatest(ctx, &models.CognitiveSession{
			PatientID:   pid,
			SessionDate: "2025-09-01T08:30:00Z",
		}))
	}

	ids, err := cache.ListPatients(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"patient-001", "patient-002", "patient-003"}, ids)
}

func TestSessionCache_ListPatients_Empty(t *testing.T) {
	_, cache := setupTestCache(t)

	ids, err := cache.ListPatients(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestSessionCache_PutLatest_MissingPatientID(t *testing.T) {
	_, cache := setupTestCache(t)
	ctx := context.Background()

	err := cache.PutLatest(ctx, &models.CognitiveSession{})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "patient_id is required")
}
