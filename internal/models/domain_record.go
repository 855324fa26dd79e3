package models

// 单域模拟器的 domain 取值
const (
	DomainMobility          = "mobility"
	DomainMemory            = "memory"
	DomainExecutiveFunction = "executive_function"
	DomainLanguage          = "language"
)

// MobilityMetrics 移动能力域指标（可穿戴设备）
type MobilityMetrics struct {
	GaitSpeedMps        float64 `json:"gait_speed_mps"`        // 0.4-1.5
	StrideVariabilityPct float64 `json:"stride_variability_pct"` // 5-30
	DailySteps          int     `json:"daily_steps"`           // 500-15000
	FallDetected        bool    `json:"fall_detected"`
}

// MemoryTestMetrics 记忆测试指标（MoCA 回忆风格，5词列表）
type MemoryTestMetrics struct {
	ImmediateRecallCorrect int `json:"immediate_recall_correct"`
	DelayedRecallCorrect   int `json:"delayed_recall_correct"`
	IntrusionErrors        int `json:"intrusion_errors"`
}

// ExecutiveTestMetrics 执行功能测试指标（TMT-B + 符号数字）
type ExecutiveTestMetrics struct {
	TmtBCompletionSec  int `json:"tmt_b_completion_sec"`
	Errors             int `json:"errors"`
	SymbolDigitCorrect int `json:"symbol_digit_correct"`
}

// LanguageMetrics 语言域指标（言语流畅性任务）
type LanguageMetrics struct {
	VerbalFluencyWords  int     `json:"verbal_fluency_words"`
	AvgPauseMs          int     `json:"avg_pause_ms"`
	ArticulationRateWps float64 `json:"articulation_rate_wps"`
	SentimentScore      float64 `json:"sentiment_score"`
}

// DomainRecord 单域评估记录（每患者每域每天一条）
//
// Metrics 的具体类型由 Domain 决定：
//   - mobility:           MobilityMetrics（含 signal_quality）
//   - memory:             MemoryTestMetrics（test_type = "MoCA_recall"）
//   - executive_function: ExecutiveTestMetrics（task_type = "trail_making_test_b"）
//   - language:           LanguageMetrics（含 signal_quality，task_type = "verbal_fluency_test"）
type DomainRecord struct {
	DeviceID      string   `json:"device_id"`
	PatientID     string   `json:"patient_id"`
	Timestamp     string   `json:"timestamp"` // ISO-8601
	Domain        string   `json:"domain"`
	Metrics       any      `json:"metrics"`
	SignalQuality *float64 `json:"signal_quality,omitempty"`
	TaskType      string   `json:"task_type,omitempty"`
	TestType      string   `json:"test_type,omitempty"`
}
