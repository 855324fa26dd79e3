package simulator

import (
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"

	"carehaven-edgesim/internal/models"
)

const (
	historyWindowDays  = 365
	historyMinGapDays  = 30
	historyMaxAttempts = 100
)

// wellSpacedDates 在过去一年内采样 n 个两两间隔 >= 30 天的时间点，升序返回
//
// 随机重采样若在尝试上限内未能填满（窗口容量对小 n 足够，此路径仅
// 在 n 偏大时出现），剩余时间点按顺序以 30 天步进补齐。
func wellSpacedDates(rng *rand.Rand, n int, now time.Time) []time.Time {
	windowStart := now.AddDate(0, 0, -historyWindowDays)

	days := make([]int, 0, n)
	attempts := 0
	for len(days) < n && attempts < historyMaxAttempts {
		attempts++
		candidate := randInt(rng, 0, historyWindowDays-1)
		ok := true
		for _, d := range days {
			if abs(candidate-d) < historyMinGapDays {
				ok = false
				break
			}
		}
		if ok {
			days = append(days, candidate)
		}
	}
	sort.Ints(days)
	for len(days) < n {
		next := historyMinGapDays
		if len(days) > 0 {
			next = days[len(days)-1] + historyMinGapDays
		}
		days = append(days, next)
	}

	dates := make([]time.Time, n)
	for i, d := range days {
		dates[i] = windowStart.AddDate(0, 0, d).
			Add(time.Duration(randInt(rng, 8, 18))*time.Hour +
				time.Duration(randInt(rng, 0, 59))*time.Minute)
	}
	return dates
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// GenerateHistorical 为每个档案生成稀疏历史会话（非连续天，间隔至少一个月）
//
// 每患者状态派生一次后复用，各次会话为同一潜在状态上的独立采样，
// 无练习/下降相位（稀疏就诊间隔下逐日趋势无意义）。
func (e *Engine) GenerateHistorical(profiles []models.PatientProfile, recordsPerPatient int, now time.Time) []models.CognitiveSession {
	records := make([]models.CognitiveSession, 0, len(profiles)*recordsPerPatient)
	for i := range profiles {
		p := &profiles[i]
		id := Identity{PatientID: p.PatientID, Profile: p}
		if id.DeviceID = p.Device(models.DeviceRoleSpeech); id.DeviceID == "" {
			id.DeviceID = p.Device(models.DeviceRoleWearable)
		}
		if id.DeviceID == "" {
			id.DeviceID = "DEV-" + shortID(id.PatientID)
		}

		b := ExtractBaselines(e.rng, p)
		state := NewPatientState(e.rng, id, b)
		for _, at := range wellSpacedDates(e.rng, recordsPerPatient, now) {
			session := simulateSessionSteady(e.rng, state)
			session.SessionDate = formatTimestamp(at)
			records = append(records, session)
		}
	}
	e.logger.Info("Generated historical sessions",
		zap.Int("patients", len(profiles)),
		zap.Int("records_per_patient", recordsPerPatient),
		zap.Int("total", len(records)),
	)
	return records
}
