package models

// AttentionMetrics 注意力域指标（数字广度任务）
type AttentionMetrics struct {
	DigitSpanMax int     `json:"digit_span_max"` // 2-8
	Errors       int     `json:"errors"`
	LatencySec   float64 `json:"latency_sec"`
}

// ExecutiveFunctionMetrics 执行功能域指标（言语流畅性任务）
type ExecutiveFunctionMetrics struct {
	VerbalFluencyWords  int     `json:"verbal_fluency_words"`
	ArticulationRateWps float64 `json:"articulation_rate_wps"`
	AvgPauseMs          int     `json:"avg_pause_ms"`
}

// MemoryMetrics 记忆域指标（5词列表回忆）
//
// 不变量：delayed_recall <= immediate_recall <= 5
type MemoryMetrics struct {
	ImmediateRecall int `json:"immediate_recall"`
	DelayedRecall   int `json:"delayed_recall"`
	IntrusionErrors int `json:"intrusion_errors"`
}

// OrientationMetrics 定向力域指标
type OrientationMetrics struct {
	DateCorrect bool `json:"date_correct"`
	CityCorrect bool `json:"city_correct"`
}

// ProcessingSpeedMetrics 处理速度域指标
type ProcessingSpeedMetrics struct {
	AvgReactionTimeMs int `json:"avg_reaction_time_ms"` // >= 350
	MissedTrials      int `json:"missed_trials"`
}

// MoodBehaviorMetrics 情绪/行为域指标
type MoodBehaviorMetrics struct {
	SentimentScore     float64 `json:"sentiment_score"`     // 0.0-1.0
	NarrativeCoherence float64 `json:"narrative_coherence"` // 0.0-1.0
}

// CognitiveSession 多域认知会话记录（复合记录，每患者每天一条）
//
// 生成后不可变，只追加到输出序列，不更新不删除。
type CognitiveSession struct {
	DeviceID          string                   `json:"device_id"`
	PatientID         string                   `json:"patient_id"`
	SessionDate       string                   `json:"session_date"` // ISO-8601
	Attention         AttentionMetrics         `json:"attention"`
	ExecutiveFunction ExecutiveFunctionMetrics `json:"executive_function"`
	Memory            MemoryMetrics            `json:"memory"`
	Orientation       OrientationMetrics       `json:"orientation"`
	ProcessingSpeed   ProcessingSpeedMetrics   `json:"processing_speed"`
	MoodBehavior      MoodBehaviorMetrics      `json:"mood_behavior"`
}
