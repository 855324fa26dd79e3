package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"carehaven-edgesim/internal/models"
)

// SessionsRepository 认知会话记录仓库
type SessionsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSessionsRepository 创建认知会话记录仓库
func NewSessionsRepository(db *sql.DB, logger *zap.Logger) *SessionsRepository {
	return &SessionsRepository{
		db:     db,
		logger: logger,
	}
}

// InsertSession 写入单条会话记录
//
// cognitiveIndex 为下游推断得到的综合指数，直接入库时可为 nil。
func (r *SessionsRepository) InsertSession(ctx context.Context, session *models.CognitiveSession, cognitiveIndex *float64) error {
	if session == nil {
		return fmt.Errorf("session is required")
	}
	if session.PatientID == "" {
		return fmt.Errorf("patient_id is required")
	}

	query := `
		INSERT INTO cognitive_health_data (
			id,
			device_id,
			patient_id,
			session_date,
			attention,
			executive_function,
			memory,
			orientation,
			processing_speed,
			mood_behavior,
			cognitive_index,
			created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, CURRENT_TIMESTAMP
		)
	`

	attention, err := json.Marshal(session.Attention)
	if err != nil {
		return fmt.Errorf("failed to marshal attention: %w", err)
	}
	executive, err := json.Marshal(session.ExecutiveFunction)
	if err != nil {
		return fmt.Errorf("failed to marshal executive_function: %w", err)
	}
	memory, err := json.Marshal(session.Memory)
	if err != nil {
		return fmt.Errorf("failed to marshal memory: %w", err)
	}
	orientation, err := json.Marshal(session.Orientation)
	if err != nil {
		return fmt.Errorf("failed to marshal orientation: %w", err)
	}
	speed, err := json.Marshal(session.ProcessingSpeed)
	if err != nil {
		return fmt.Errorf("failed to marshal processing_speed: %w", err)
	}
	mood, err := json.Marshal(session.MoodBehavior)
	if err != nil {
		return fmt.Errorf("failed to marshal mood_behavior: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query,
		uuid.New().String(),
		session.DeviceID,
		session.PatientID,
		session.SessionDate,
		attention,
		executive,
		memory,
		orientation,
		speed,
		mood,
		cognitiveIndex,
	)
	if err != nil {
		return fmt.Errorf("failed to insert cognitive session: %w", err)
	}

	return nil
}

// InsertStats 批量写入的逐行统计
type InsertStats struct {
	Inserted int
	Failed   int
}

// InsertSessions 批量写入会话记录，单行失败记日志后跳过
func (r *SessionsRepository) InsertSessions(ctx context.Context, sessions []models.CognitiveSession) (InsertStats, error) {
	var stats InsertStats
	for i := range sessions {
		if err := r.InsertSession(ctx, &sessions[i], nil); err != nil {
			stats.Failed++
			r.logger.Warn("Failed to insert cognitive session",
				zap.String("patient_id", sessions[i].PatientID),
				zap.String("session_date", sessions[i].SessionDate),
				zap.Error(err),
			)
			continue
		}
		stats.Inserted++
	}

	r.logger.Info("Inserted cognitive sessions",
		zap.Int("inserted", stats.Inserted),
		zap.Int("failed", stats.Failed),
	)
	return stats, nil
}

// CountSessionsByPatient 统计指定患者的会话记录数
func (r *SessionsRepository) CountSessionsByPatient(ctx context.Context, patientID string) (int, error) {
	if patientID == "" {
		return 0, fmt.Errorf("patient_id is required")
	}

	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM cognitive_health_data WHERE patient_id = $1`,
		patientID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count cognitive sessions: %w", err)
	}
	return count, nil
}
