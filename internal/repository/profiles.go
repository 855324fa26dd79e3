package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"carehaven-edgesim/internal/models"
)

// ProfilesRepository 患者档案仓库
type ProfilesRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProfilesRepository 创建患者档案仓库
func NewProfilesRepository(db *sql.DB, logger *zap.Logger) *ProfilesRepository {
	return &ProfilesRepository{
		db:     db,
		logger: logger,
	}
}

// UpsertStats 批量写入的逐行统计
type UpsertStats struct {
	Inserted int
	Updated  int
	Failed   int
}

// GetAllProfiles 获取全部患者档案
func (r *ProfilesRepository) GetAllProfiles(ctx context.Context) ([]models.PatientProfile, error) {
	query := `
		SELECT
			patient_id,
			name,
			dob,
			sex,
			education_years,
			comorbidities,
			medications,
			device_ids,
			cognitive_baseline
		FROM patient_profiles
		ORDER BY patient_id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query patient profiles: %w", err)
	}
	defer rows.Close()

	profiles := []models.PatientProfile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate patient profiles: %w", err)
	}

	return profiles, nil
}

// GetRandomProfile 随机获取一个患者档案（stream 模式每次触发选取一名患者）
func (r *ProfilesRepository) GetRandomProfile(ctx context.Context) (*models.PatientProfile, error) {
	query := `
		SELECT
			patient_id,
			name,
			dob,
			sex,
			education_years,
			comorbidities,
			medications,
			device_ids,
			cognitive_baseline
		FROM patient_profiles
		ORDER BY RANDOM()
		LIMIT 1
	`

	row := r.db.QueryRowContext(ctx, query)
	p, err := scanProfile(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("no patient profiles found")
		}
		return nil, err
	}
	return &p, nil
}

// UpsertProfiles 批量写入患者档案（patient_id 冲突时整行更新）
//
// 单行失败不中断批次，逐行记录日志并计入统计。
func (r *ProfilesRepository) UpsertProfiles(ctx context.Context, profiles []models.PatientProfile) (UpsertStats, error) {
	query := `
		INSERT INTO patient_profiles (
			patient_id,
			name,
			dob,
			sex,
			education_years,
			comorbidities,
			medications,
			device_ids,
			cognitive_baseline,
			updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, CURRENT_TIMESTAMP
		)
		ON CONFLICT (patient_id) DO UPDATE SET
			name = EXCLUDED.name,
			dob = EXCLUDED.dob,
			sex = EXCLUDED.sex,
			education_years = EXCLUDED.education_years,
			comorbidities = EXCLUDED.comorbidities,
			medications = EXCLUDED.medications,
			device_ids = EXCLUDED.device_ids,
			cognitive_baseline = EXCLUDED.cognitive_baseline,
			updated_at = CURRENT_TIMESTAMP
		RETURNING (xmax = 0)
	`

	var stats UpsertStats
	for i := range profiles {
		p := &profiles[i]

		comorbidities, err := json.Marshal(p.Comorbidities)
		if err != nil {
			stats.Failed++
			r.logger.Warn("Failed to marshal comorbidities, skipping profile",
				zap.String("patient_id", p.PatientID),
				zap.Error(err),
			)
			continue
		}
		medications, err := json.Marshal(p.Medications)
		if err != nil {
			stats.Failed++
			r.logger.Warn("Failed to marshal medications, skipping profile",
				zap.String("patient_id", p.PatientID),
				zap.Error(err),
			)
			continue
		}
		deviceIDs, err := json.Marshal(p.DeviceIDs)
		if err != nil {
			stats.Failed++
			r.logger.Warn("Failed to marshal device_ids, skipping profile",
				zap.String("patient_id", p.PatientID),
				zap.Error(err),
			)
			continue
		}
		var baseline []byte
		if p.CognitiveBaseline != nil {
			baseline, err = json.Marshal(p.CognitiveBaseline)
			if err != nil {
				stats.Failed++
				r.logger.Warn("Failed to marshal cognitive_baseline, skipping profile",
					zap.String("patient_id", p.PatientID),
					zap.Error(err),
				)
				continue
			}
		}

		var inserted bool
		err = r.db.QueryRowContext(ctx, query,
			p.PatientID,
			p.Name,
			p.DOB,
			p.Sex,
			p.EducationYears,
			comorbidities,
			medications,
			deviceIDs,
			baseline,
		).Scan(&inserted)
		if err != nil {
			stats.Failed++
			r.logger.Warn("Failed to upsert patient profile",
				zap.String("patient_id", p.PatientID),
				zap.Error(err),
			)
			continue
		}
		if inserted {
			stats.Inserted++
		} else {
			stats.Updated++
		}
	}

	r.logger.Info("Upserted patient profiles",
		zap.Int("inserted", stats.Inserted),
		zap.Int("updated", stats.Updated),
		zap.Int("failed", stats.Failed),
	)
	return stats, nil
}

// rowScanner 统一 QueryRow / rows.Next 的扫描入口
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProfile(row rowScanner) (models.PatientProfile, error) {
	var p models.PatientProfile
	var dob, sex sql.NullString
	var comorbidities, medications, deviceIDs, baseline []byte

	err := row.Scan(
		&p.PatientID,
		&p.Name,
		&dob,
		&sex,
		&p.EducationYears,
		&comorbidities,
		&medications,
		&deviceIDs,
		&baseline,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return p, err
		}
		return p, fmt.Errorf("failed to scan patient profile: %w", err)
	}

	if dob.Valid {
		p.DOB = dob.String
	}
	if sex.Valid {
		p.Sex = sex.String
	}

	// JSONB 字段
	if len(comorbidities) > 0 {
		if err := json.Unmarshal(comorbidities, &p.Comorbidities); err != nil {
			return p, fmt.Errorf("failed to unmarshal comorbidities: %w", err)
		}
	}
	if len(medications) > 0 {
		if err := json.Unmarshal(medications, &p.Medications); err != nil {
			return p, fmt.Errorf("failed to unmarshal medications: %w", err)
		}
	}
	if len(deviceIDs) > 0 {
		if err := json.Unmarshal(deviceIDs, &p.DeviceIDs); err != nil {
			return p, fmt.Errorf("failed to unmarshal device_ids: %w", err)
		}
	}
	if len(baseline) > 0 {
		var cb models.CognitiveBaseline
		if err := json.Unmarshal(baseline, &cb); err != nil {
			return p, fmt.Errorf("failed to unmarshal cognitive_baseline: %w", err)
		}
		p.CognitiveBaseline = &cb
	}

	return p, nil
}
