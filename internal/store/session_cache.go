package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"carehaven-edgesim/internal/config"
	"carehaven-edgesim/internal/models"
)

// SessionCache 每患者最新会话缓存
//
// 键形如 cognitive:patient:{patient_id}:latest，值为会话 JSON，带 TTL。
// 下游看板/卡片消费方按患者ID直读最近一次会话。
type SessionCache struct {
	kv     KV
	prefix string
	suffix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewSessionCache 创建最新会话缓存
func NewSessionCache(cfg *config.Config, kv KV, logger *zap.Logger) *SessionCache {
	return &SessionCache{
		kv:     kv,
		prefix: cfg.Cache.LatestKeyPrefix,
		suffix: cfg.Cache.LatestSuffix,
		ttl:    time.Duration(cfg.Cache.LatestTTL) * time.Second,
		logger: logger,
	}
}

func (c *SessionCache) key(patientID string) string {
	return c.prefix + patientID + c.suffix
}

// PutLatest 写入患者最新会话
func (c *SessionCache) PutLatest(ctx context.Context, session *models.CognitiveSession) error {
	if session == nil || session.PatientID == "" {
		return fmt.Errorf("session with patient_id is required")
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := c.kv.Set(ctx, c.key(session.PatientID), string(data), c.ttl); err != nil {
		return fmt.Errorf("failed to cache latest session: %w", err)
	}

	c.logger.Debug("Cached latest session",
		zap.String("patient_id", session.PatientID),
		zap.String("session_date", session.SessionDate),
	)
	return nil
}

// ListPatients 扫描缓存中当前持有最新会话的全部患者ID
func (c *SessionCache) ListPatients(ctx context.Context) ([]string, error) {
	keys, err := c.kv.ScanKeys(ctx, c.prefix+"*"+c.suffix)
	if err != nil {
		return nil, fmt.Errorf("failed to scan session keys: %w", err)
	}

	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		id := strings.TrimSuffix(strings.TrimPrefix(k, c.prefix), c.suffix)
		if id != "" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// GetLatest 读取患者最新会话；不存在时返回 ErrMiss
func (c *SessionCache) GetLatest(ctx context.Context, patientID string) (*models.CognitiveSession, error) {
	if patientID == "" {
		return nil, fmt.Errorf("patient_id is required")
	}

	val, err := c.kv.Get(ctx, c.key(patientID))
	if err != nil {
		if err == ErrMiss {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("failed to get latest session: %w", err)
	}

	var session models.CognitiveSession
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached session: %w", err)
	}
	return &session, nil
}
