package simulator

import (
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"carehaven-edgesim/internal/models"
)

// Engine 合成数据引擎
//
// 单线程、调用间无共享状态（随机源除外）。患者按输入档案顺序、
// 天按升序处理，保证固定 seed 下输出序列逐字节可复现。
type Engine struct {
	rng    *rand.Rand
	logger *zap.Logger
}

// NewEngine 创建引擎；seed = 0 表示按时间播种（不可复现）
func NewEngine(seed int64, logger *zap.Logger) *Engine {
	return &Engine{
		rng:    NewRand(seed),
		logger: logger,
	}
}

// Options 一次生成运行的参数
type Options struct {
	Patients       int
	Days           int
	StartDate      time.Time
	Profiles       []models.PatientProfile // 可为空（合成身份）
	UseAllProfiles bool
}

func (o Options) validate() error {
	if o.Patients <= 0 {
		return fmt.Errorf("patients must be > 0, got %d", o.Patients)
	}
	if o.Days <= 0 {
		return fmt.Errorf("days must be > 0, got %d", o.Days)
	}
	return nil
}

// GenerateSessions 生成多域复合会话数据集（每患者每天一条记录）
func (e *Engine) GenerateSessions(opts Options) ([]models.CognitiveSession, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	identities := ResolveIdentities(e.rng, e.logger, opts.Patients, opts.Profiles, models.DeviceRoleSpeech, opts.UseAllProfiles)

	records := make([]models.CognitiveSession, 0, len(identities)*opts.Days)
	for _, id := range identities {
		b := ExtractBaselines(e.rng, id.Profile)
		state := NewPatientState(e.rng, id, b)
		for day := 0; day < opts.Days; day++ {
			// 会话时间：上午 8 点起，随机分钟抖动
			ts := opts.StartDate.AddDate(0, 0, day).
				Add(8*time.Hour + time.Duration(randInt(e.rng, 0, 50))*time.Minute)
			session := SimulateSession(e.rng, state, day)
			session.SessionDate = formatTimestamp(ts)
			records = append(records, session)
		}
	}

	if len(opts.Profiles) > 0 {
		e.logger.Info("Reused patient IDs from profiles",
			zap.Int("patients", len(identities)),
		)
	}
	return records, nil
}

// GenerateDomain 生成指定单域数据集（每患者每天一条记录）
func (e *Engine) GenerateDomain(domain string, opts Options) ([]models.DomainRecord, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	spec, ok := LookupDomain(domain)
	if !ok {
		return nil, fmt.Errorf("unknown domain: %s", domain)
	}

	identities := ResolveIdentities(e.rng, e.logger, opts.Patients, opts.Profiles, spec.DeviceRole, opts.UseAllProfiles)

	records := make([]models.DomainRecord, 0, len(identities)*opts.Days)
	for _, id := range identities {
		simulate := spec.newPatient(e.rng, id.Profile)
		for day := 0; day < opts.Days; day++ {
			ts := opts.StartDate.AddDate(0, 0, day).
				Add(time.Duration(randInt(e.rng, spec.HourLo, spec.HourHi))*time.Hour +
					time.Duration(randInt(e.rng, 0, 59))*time.Minute)
			metrics, quality := simulate(e.rng, day)
			records = append(records, models.DomainRecord{
				DeviceID:      id.DeviceID,
				PatientID:     id.PatientID,
				Timestamp:     formatTimestamp(ts),
				Domain:        spec.Domain,
				Metrics:       metrics,
				SignalQuality: quality,
				TaskType:      spec.TaskType,
				TestType:      spec.TestType,
			})
		}
	}

	if len(opts.Profiles) > 0 {
		e.logger.Info("Reused patient IDs from profiles",
			zap.String("domain", domain),
			zap.Int("patients", len(identities)),
		)
	}
	return records, nil
}

// SimulateOne 为单个患者生成一次当前时刻的复合会话（stream 模式）
//
// 设备优先级：speech → wearable → 由患者ID派生
func (e *Engine) SimulateOne(profile *models.PatientProfile, at time.Time) models.CognitiveSession {
	id := Identity{Profile: profile}
	if profile != nil {
		id.PatientID = profile.PatientID
		if id.DeviceID = profile.Device(models.DeviceRoleSpeech); id.DeviceID == "" {
			id.DeviceID = profile.Device(models.DeviceRoleWearable)
		}
	}
	if id.PatientID == "" {
		id.PatientID = newPatientID(e.rng)
	}
	if id.DeviceID == "" {
		id.DeviceID = "DEV-" + shortID(id.PatientID)
	}

	b := ExtractBaselines(e.rng, profile)
	state := NewPatientState(e.rng, id, b)
	session := simulateSessionSteady(e.rng, state)
	session.SessionDate = formatTimestamp(at)
	return session
}

// simulateSessionSteady 生成无趋势调整（平台期等价）的一次会话
func simulateSessionSteady(rng *rand.Rand, state PatientState) models.CognitiveSession {
	return simulateSessionAt(rng, state, 1.0, 0.0)
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
