package simulator

import (
	"math/rand"

	"carehaven-edgesim/internal/models"
)

// gaussSpec 基线采样参数：均值 = Base + CFGain*cf + DepGain*depPenalty，标准差 Sigma
// 各域常数为经验取值，可调但非临床验证模型。
type gaussSpec struct {
	Base    float64
	CFGain  float64
	DepGain float64
	Sigma   float64
}

func (g gaussSpec) sample(rng *rand.Rand, cf, depPenalty float64) float64 {
	return normal(rng, g.Base+g.CFGain*cf+g.DepGain*depPenalty, g.Sigma)
}

// sessionBaselineSpecs 多域会话的每患者基线参数表
var sessionBaselineSpecs = struct {
	AttentionSpan    gaussSpec
	AttentionLatency gaussSpec
	ExecFluency      gaussSpec
	ExecPause        gaussSpec
	ExecArtic        gaussSpec
	MemoryImmediate  gaussSpec
	MemoryDelayedGap gaussSpec
	Sentiment        gaussSpec
	Narrative        gaussSpec
	ReactionTime     gaussSpec
}{
	AttentionSpan:    gaussSpec{4.0, 3.0, -1.5, 0.55},
	AttentionLatency: gaussSpec{1.65, -0.85, 0.4, 0.14},
	ExecFluency:      gaussSpec{12, 14, -6, 2.8},
	ExecPause:        gaussSpec{1420, -620, 220, 170},
	ExecArtic:        gaussSpec{1.38, 0.92, -0.25, 0.18},
	MemoryImmediate:  gaussSpec{2.9, 2.0, -1.2, 0.48},
	MemoryDelayedGap: gaussSpec{0.9, -0.7, 0.3, 0.37},
	Sentiment:        gaussSpec{0.47, 0.25, -1.1, 0.09},
	Narrative:        gaussSpec{0.5, 0.34, -0.8, 0.09},
	ReactionTime:     gaussSpec{905, -355, 140, 58},
}

// sessionTrend 多域会话的相位常数：练习期至第4天，第20天后下降，
// 仅 cf < 0.55 的患者进入下降期。
var sessionTrend = Trend{PracticeCutoff: 4, DeclineStart: 20, ImpairmentCF: 0.55}

// PatientState 多域会话的每患者潜在状态
//
// 在患者初始化时派生一次，之后不可变（是档案的纯函数，跨天不修改）。
type PatientState struct {
	PatientID  string
	DeviceID   string
	CF         float64
	MMSE       int
	MoCA       int
	Depression int

	AttentionSpan    float64
	AttentionLatency float64
	ExecFluency      float64
	ExecPause        float64
	ExecArtic        float64
	MemoryImmediate  float64
	MemoryDelayed    float64
	Sentiment        float64
	Narrative        float64
	ReactionTime     float64
}

// NewPatientState 由身份与基线评分派生每患者潜在状态
//
// 每个域基线 = f(cf, mmse, moca, depression) + 独立高斯噪声，
// 派生后立即裁剪到各域的合理区间。
func NewPatientState(rng *rand.Rand, id Identity, b Baselines) PatientState {
	dp := b.DepressionPenalty()
	s := sessionBaselineSpecs

	state := PatientState{
		PatientID:  id.PatientID,
		DeviceID:   id.DeviceID,
		CF:         b.CF,
		MMSE:       b.MMSE,
		MoCA:       b.MoCA,
		Depression: b.Depression,
	}

	state.AttentionSpan = clampF(s.AttentionSpan.sample(rng, b.CF, dp), 2, 8)
	state.AttentionLatency = clampF(s.AttentionLatency.sample(rng, b.CF, dp), 0.6, 5.0)
	state.ExecFluency = clampF(s.ExecFluency.sample(rng, b.CF, dp), 3, 45)
	state.ExecPause = clampF(s.ExecPause.sample(rng, b.CF, dp), 300, 4000)
	state.ExecArtic = clampF(s.ExecArtic.sample(rng, b.CF, dp), 0.6, 3.8)
	state.MemoryImmediate = clampF(s.MemoryImmediate.sample(rng, b.CF, dp), 0, 5)
	state.MemoryDelayed = clampF(state.MemoryImmediate-s.MemoryDelayedGap.sample(rng, b.CF, dp), 0, state.MemoryImmediate)
	state.Sentiment = clampF(s.Sentiment.sample(rng, b.CF, dp), 0, 1)
	state.Narrative = clampF(s.Narrative.sample(rng, b.CF, dp), 0, 1)
	state.ReactionTime = clampF(s.ReactionTime.sample(rng, b.CF, dp), 350, 1400)

	return state
}

// SimulateSession 生成指定天数索引的一次多域会话指标
//
// 耦合字段（插入错误、漏试次数、注意力错误等）只依赖同一会话内
// 已计算出的字段，不存在前向引用。delayed <= immediate 为硬排序不变量。
func SimulateSession(rng *rand.Rand, state PatientState, dayIndex int) models.CognitiveSession {
	pm := sessionTrend.PracticeMultiplier(dayIndex)
	decay := 0.0
	if sessionTrend.DeclineActive(state.CF, dayIndex) {
		decay = 0.05 * float64(sessionTrend.DeclineDays(dayIndex))
	}
	return simulateSessionAt(rng, state, pm, decay)
}

func simulateSessionAt(rng *rand.Rand, state PatientState, pm, decay float64) models.CognitiveSession {
	// 注意力：先得数字广度，错误数由广度耦合得出
	span := clampI(roundI(normal(rng, state.AttentionSpan*pm-decay, 0.5)), 2, 8)
	attErrors := attentionErrors(rng, span)
	attLatency := maxF(0.6, normal(rng, state.AttentionLatency/pm+decay*0.2, 0.12))

	// 执行功能
	fluency := maxI(3, roundI(normal(rng, state.ExecFluency*pm-decay*2, 3)))
	artic := maxF(0.6, round2(normal(rng, state.ExecArtic*pm-decay*0.05, 0.15)))
	pause := int(maxF(300, normal(rng, state.ExecPause/pm+decay*120, 160)))

	// 记忆：延迟回忆被立即回忆封顶
	immediate := clampI(roundI(normal(rng, state.MemoryImmediate*pm-decay*0.2, 0.6)), 0, 5)
	delayed := clampI(roundI(normal(rng, state.MemoryDelayed*pm-decay*0.35, 0.7)), 0, immediate)
	intrusions := intrusionErrors(rng, immediate, delayed, state.CF, state.Depression)

	// 定向力：正确率随认知因子平移
	dateCorrect := bernoulli(rng, 0.85+(state.CF-0.6)*0.25-decay*0.05)
	cityCorrect := bernoulli(rng, 0.8+(state.CF-0.6)*0.30-decay*0.07)

	// 处理速度
	reactionTime := int(maxF(350, normal(rng, state.ReactionTime/pm+decay*40, 50)))
	missed := missedTrials(rng, reactionTime)

	// 情绪/行为
	depAdj := float64(state.Depression) / 30.0
	sentiment := clampF(round2(normal(rng, state.Sentiment+(pm-1.0)*0.05-decay*0.02-depAdj*0.15, 0.07)), 0, 1)
	narrative := clampF(round2(normal(rng, state.Narrative+(pm-1.0)*0.06-decay*0.03-depAdj*0.12, 0.08)), 0, 1)

	return models.CognitiveSession{
		DeviceID:  state.DeviceID,
		PatientID: state.PatientID,
		Attention: models.AttentionMetrics{
			DigitSpanMax: span,
			Errors:       attErrors,
			LatencySec:   round2(attLatency),
		},
		ExecutiveFunction: models.ExecutiveFunctionMetrics{
			VerbalFluencyWords:  fluency,
			ArticulationRateWps: artic,
			AvgPauseMs:          pause,
		},
		Memory: models.MemoryMetrics{
			ImmediateRecall: immediate,
			DelayedRecall:   delayed,
			IntrusionErrors: intrusions,
		},
		Orientation: models.OrientationMetrics{
			DateCorrect: dateCorrect,
			CityCorrect: cityCorrect,
		},
		ProcessingSpeed: models.ProcessingSpeedMetrics{
			AvgReactionTimeMs: reactionTime,
			MissedTrials:      missed,
		},
		MoodBehavior: models.MoodBehaviorMetrics{
			SentimentScore:     sentiment,
			NarrativeCoherence: narrative,
		},
	}
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func maxI(a, b int) int {
	if a > b {
		return a
	}
	return b
}
