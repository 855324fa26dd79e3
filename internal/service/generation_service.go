package service

import (
	"context"
	"fmt"
	"math/rand"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"carehaven-edgesim/internal/config"
	"carehaven-edgesim/internal/connector"
	"carehaven-edgesim/internal/export"
	"carehaven-edgesim/internal/models"
	"carehaven-edgesim/internal/mqtt"
	"carehaven-edgesim/internal/repository"
	"carehaven-edgesim/internal/simulator"
	"carehaven-edgesim/internal/store"
)

// 生成模式
const (
	ModeProfiles    = "profiles"
	ModeMultidomain = "multidomain"
	ModeHistorical  = "historical"
	ModeStream      = "stream"
)

// Sinks 可选的下游推送端，未配置的字段为 nil
type Sinks struct {
	ProfilesRepo *repository.ProfilesRepository
	SessionsRepo *repository.SessionsRepository
	Cache        *store.SessionCache
	Edge         *connector.EdgeClient
	Publisher    *mqtt.Publisher
}

// GenerationService 数据生成编排服务
//
// 流程：解析档案 → 生成 → 数量校验 → 写文件 → 推送下游。
// 下游推送失败均为非致命，逐条记录并计入汇总统计。
type GenerationService struct {
	cfg    *config.Config
	logger *zap.Logger
	engine *simulator.Engine
	sinks  Sinks
}

// NewGenerationService 创建生成服务
func NewGenerationService(cfg *config.Config, logger *zap.Logger, sinks Sinks) *GenerationService {
	return &GenerationService{
		cfg:    cfg,
		logger: logger,
		engine: simulator.NewEngine(cfg.Sim.Seed, logger),
		sinks:  sinks,
	}
}

// Run 按模式分发一次生成运行
func (s *GenerationService) Run(ctx context.Context, mode string, xlsx bool) error {
	switch mode {
	case ModeProfiles:
		return s.RunProfiles(ctx, xlsx)
	case ModeMultidomain:
		return s.RunMultidomain(ctx, xlsx)
	case ModeHistorical:
		return s.RunHistorical(ctx)
	case ModeStream:
		return s.RunStream(ctx)
	default:
		if _, ok := simulator.LookupDomain(mode); ok {
			return s.RunDomain(ctx, mode, xlsx)
		}
		return fmt.Errorf("unknown mode: %s", mode)
	}
}

// RunProfiles 生成合成患者档案并落盘/入库
func (s *GenerationService) RunProfiles(ctx context.Context, xlsx bool) error {
	if s.cfg.Sim.Patients <= 0 {
		return fmt.Errorf("patients must be > 0, got %d", s.cfg.Sim.Patients)
	}

	rng := simulator.NewRand(s.cfg.Sim.Seed)
	profiles := simulator.GenerateProfiles(rng, s.cfg.Sim.Patients)

	s.logger.Info("Generated patient profiles",
		zap.Int("count", len(profiles)),
	)

	path := filepath.Join(s.cfg.Sim.OutputDir, "patient_profiles.json")
	if err := export.WriteJSON(path, profiles, s.logger); err != nil {
		return err
	}
	if xlsx {
		xlsxPath := filepath.Join(s.cfg.Sim.OutputDir, "patient_profiles.xlsx")
		if err := export.WriteXLSX(xlsxPath, profiles, s.logger); err != nil {
			return err
		}
	}

	if s.sinks.ProfilesRepo != nil {
		stats, err := s.sinks.ProfilesRepo.UpsertProfiles(ctx, profiles)
		if err != nil {
			return fmt.Errorf("failed to persist profiles: %w", err)
		}
		s.logger.Info("Persisted patient profiles",
			zap.Int("inserted", stats.Inserted),
			zap.Int("updated", stats.Updated),
			zap.Int("failed", stats.Failed),
		)
	}
	return nil
}

// RunMultidomain 生成多域复合会话数据集
func (s *GenerationService) RunMultidomain(ctx context.Context, xlsx bool) error {
	opts, profiles, err := s.buildOptions(ctx)
	if err != nil {
		return err
	}

	records, err := s.engine.GenerateSessions(opts)
	if err != nil {
		return err
	}
	if err := s.checkCount(len(records), len(profiles), opts); err != nil {
		return err
	}

	path := filepath.Join(s.cfg.Sim.OutputDir, "multidomain_cognitive_dataset.json")
	if err := export.WriteJSON(path, records, s.logger); err != nil {
		return err
	}
	if xlsx {
		xlsxPath := filepath.Join(s.cfg.Sim.OutputDir, "multidomain_cognitive_dataset.xlsx")
		if err := export.WriteXLSX(xlsxPath, records, s.logger); err != nil {
			return err
		}
	}

	s.pushSessions(ctx, records)
	return nil
}

// RunDomain 生成单域数据集（mobility / memory / executive_function / language）
func (s *GenerationService) RunDomain(ctx context.Context, domain string, xlsx bool) error {
	spec, ok := simulator.LookupDomain(domain)
	if !ok {
		return fmt.Errorf("unknown domain: %s", domain)
	}

	opts, profiles, err := s.buildOptions(ctx)
	if err != nil {
		return err
	}

	records, err := s.engine.GenerateDomain(domain, opts)
	if err != nil {
		return err
	}
	if err := s.checkCount(len(records), len(profiles), opts); err != nil {
		return err
	}

	path := filepath.Join(s.cfg.Sim.OutputDir, spec.FileStem+".json")
	if err := export.WriteJSON(path, records, s.logger); err != nil {
		return err
	}
	if xlsx {
		xlsxPath := filepath.Join(s.cfg.Sim.OutputDir, spec.FileStem+".xlsx")
		if err := export.WriteXLSX(xlsxPath, records, s.logger); err != nil {
			return err
		}
	}

	if s.sinks.Publisher != nil {
		published, failed := 0, 0
		for i := range records {
			if err := s.sinks.Publisher.PublishRecord(&records[i]); err != nil {
				failed++
				s.logger.Warn("Failed to publish domain record",
					zap.String("patient_id", records[i].PatientID),
					zap.Error(err),
				)
				continue
			}
			published++
		}
		s.logger.Info("Published domain records",
			zap.String("domain", domain),
			zap.Int("published", published),
			zap.Int("failed", failed),
		)
	}
	return nil
}

// RunHistorical 为已有档案生成稀疏历史会话并推送
func (s *GenerationService) RunHistorical(ctx context.Context) error {
	profiles, err := s.loadProfiles(ctx)
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		return fmt.Errorf("historical mode requires patient profiles")
	}

	records := s.engine.GenerateHistorical(profiles, s.cfg.Sim.RecordsPerPatient, time.Now())

	path := filepath.Join(s.cfg.Sim.OutputDir, "historical_cognitive_dataset.json")
	if err := export.WriteJSON(path, records, s.logger); err != nil {
		return err
	}

	s.pushSessions(ctx, records)
	return nil
}

// RunStream 流模式：按固定间隔随机选取一名患者生成当前时刻会话并推送
//
// 连接器失败只记录日志，循环继续。ctx 取消后退出。
func (s *GenerationService) RunStream(ctx context.Context) error {
	var profiles []models.PatientProfile
	if s.sinks.ProfilesRepo == nil {
		var err error
		profiles, err = s.loadProfiles(ctx)
		if err != nil {
			return err
		}
		if len(profiles) == 0 {
			return fmt.Errorf("stream mode requires patient profiles")
		}
	}

	interval := time.Duration(s.cfg.Sim.StreamIntervalSec) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	rng := simulator.NewRand(s.cfg.Sim.Seed)

	s.logger.Info("Streaming cognitive sessions",
		zap.Duration("interval", interval),
	)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Stream stopped")
			return nil
		case <-ticker.C:
			profile, err := s.pickProfile(ctx, rng, profiles)
			if err != nil {
				s.logger.Warn("Failed to pick patient profile", zap.Error(err))
				continue
			}

			session := s.engine.SimulateOne(profile, time.Now())
			s.pushOne(ctx, &session)
		}
	}
}

func (s *GenerationService) pickProfile(ctx context.Context, rng *rand.Rand, profiles []models.PatientProfile) (*models.PatientProfile, error) {
	if s.sinks.ProfilesRepo != nil {
		return s.sinks.ProfilesRepo.GetRandomProfile(ctx)
	}
	return &profiles[rng.Intn(len(profiles))], nil
}

// buildOptions 解析档案与模拟参数为引擎选项
func (s *GenerationService) buildOptions(ctx context.Context) (simulator.Options, []models.PatientProfile, error) {
	startDate, err := time.Parse("2006-01-02", s.cfg.Sim.StartDate)
	if err != nil {
		return simulator.Options{}, nil, fmt.Errorf("invalid start date %q: %w", s.cfg.Sim.StartDate, err)
	}

	profiles, err := s.loadProfiles(ctx)
	if err != nil {
		return simulator.Options{}, nil, err
	}

	opts := simulator.Options{
		Patients:       s.cfg.Sim.Patients,
		Days:           s.cfg.Sim.Days,
		StartDate:      startDate.UTC(),
		Profiles:       profiles,
		UseAllProfiles: s.cfg.Sim.UseAllProfiles,
	}
	return opts, profiles, nil
}

// loadProfiles 档案解析顺序：显式路径 → 数据库 → 允许合成时为空
func (s *GenerationService) loadProfiles(ctx context.Context) ([]models.PatientProfile, error) {
	if s.cfg.Sim.ProfilesPath != "" {
		profiles, err := simulator.LoadProfiles(s.cfg.Sim.ProfilesPath)
		if err != nil {
			return nil, err
		}
		s.logger.Info("Loaded patient profiles from file",
			zap.String("path", s.cfg.Sim.ProfilesPath),
			zap.Int("count", len(profiles)),
		)
		return profiles, nil
	}

	if s.sinks.ProfilesRepo != nil {
		profiles, err := s.sinks.ProfilesRepo.GetAllProfiles(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load profiles from database: %w", err)
		}
		s.logger.Info("Loaded patient profiles from database",
			zap.Int("count", len(profiles)),
		)
		return profiles, nil
	}

	if !s.cfg.Sim.AllowSynthetic {
		return nil, fmt.Errorf("no patient profiles available (set SIM_PROFILES_PATH or SIM_ALLOW_SYNTHETIC=true)")
	}

	s.logger.Warn("No patient profiles supplied, generating synthetic identifiers")
	return nil, nil
}

// checkCount 记录数校验：strict 模式不匹配即失败，否则仅告警
func (s *GenerationService) checkCount(got, available int, opts simulator.Options) error {
	expected := opts.Patients * opts.Days
	if available > 0 {
		patients := opts.Patients
		if opts.UseAllProfiles {
			patients = available
		} else if available < patients {
			patients = available
		}
		expected = patients * opts.Days
	}

	if got == expected {
		return nil
	}
	if s.cfg.Sim.StrictCount {
		return fmt.Errorf("record count mismatch: got %d, expected %d", got, expected)
	}
	s.logger.Warn("Record count differs from expected",
		zap.Int("got", got),
		zap.Int("expected", expected),
	)
	return nil
}

// pushSessions 将会话记录批量推送到已配置的下游，汇总成功/失败计数
func (s *GenerationService) pushSessions(ctx context.Context, records []models.CognitiveSession) {
	if s.sinks.SessionsRepo != nil {
		if _, err := s.sinks.SessionsRepo.InsertSessions(ctx, records); err != nil {
			s.logger.Error("Failed to persist sessions", zap.Error(err))
		}
	}

	if s.sinks.Edge != nil {
		pushed, failed := 0, 0
		for i := range records {
			if _, err := s.sinks.Edge.IngestSession(&records[i]); err != nil {
				failed++
				continue
			}
			pushed++
		}
		s.logger.Info("Pushed sessions to edge connector",
			zap.Int("pushed", pushed),
			zap.Int("failed", failed),
		)
	}

	if s.sinks.Publisher != nil {
		published, failed := 0, 0
		for i := range records {
			if err := s.sinks.Publisher.PublishRecord(&records[i]); err != nil {
				failed++
				continue
			}
			published++
		}
		s.logger.Info("Published sessions to MQTT",
			zap.Int("published", published),
			zap.Int("failed", failed),
		)
	}

	if s.sinks.Cache != nil {
		cached, failed := 0, 0
		for i := range records {
			if err := s.sinks.Cache.PutLatest(ctx, &records[i]); err != nil {
				failed++
				continue
			}
			cached++
		}
		s.logger.Info("Cached latest sessions",
			zap.Int("cached", cached),
			zap.Int("failed", failed),
		)
	}
}

// pushOne 流模式单条推送，任何下游失败均不中断
func (s *GenerationService) pushOne(ctx context.Context, session *models.CognitiveSession) {
	s.logger.Info("Generated streaming session",
		zap.String("patient_id", session.PatientID),
		zap.String("session_date", session.SessionDate),
	)

	if s.sinks.Edge != nil {
		if resp, err := s.sinks.Edge.IngestSession(session); err != nil {
			s.logger.Warn("Edge connector push failed",
				zap.String("patient_id", session.PatientID),
				zap.Error(err),
			)
		} else {
			s.logger.Info("Edge connector accepted session",
				zap.String("document_id", resp.DocumentID),
				zap.Float64("cognitive_index", resp.CognitiveIndex),
			)
		}
	}

	if s.sinks.SessionsRepo != nil {
		if err := s.sinks.SessionsRepo.InsertSession(ctx, session, nil); err != nil {
			s.logger.Warn("Failed to persist streaming session",
				zap.String("patient_id", session.PatientID),
				zap.Error(err),
			)
		}
	}

	if s.sinks.Publisher != nil {
		if err := s.sinks.Publisher.PublishRecord(session); err != nil {
			s.logger.Warn("Failed to publish streaming session",
				zap.String("patient_id", session.PatientID),
				zap.Error(err),
			)
		}
	}

	if s.sinks.Cache != nil {
		if err := s.sinks.Cache.PutLatest(ctx, session); err != nil {
			s.logger.Warn("Failed to cache streaming session",
				zap.String("patient_id", session.PatientID),
				zap.Error(err),
			)
		}
	}
}
