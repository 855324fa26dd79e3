package simulator

import (
	"math/rand"

	"carehaven-edgesim/internal/models"
)

// 档案缺省认知基线（profile 缺少 cognitive_baseline 时的临床典型替代值）
const (
	DefaultMMSE       = 26
	DefaultMoCA       = 24
	DefaultDepression = 6
)

// Baselines 每患者基线输入：认知因子与三项原始评分
type Baselines struct {
	CF         float64 // [0.3, 1.0]
	MMSE       int
	MoCA       int
	Depression int
}

// CognitiveFactor 由 mmse+moca 推导认知因子，限制在 [0.3, 1.0]
// 对 mmse 和 moca 单调非减。
func CognitiveFactor(mmse, moca int) float64 {
	return clampF(float64(mmse+moca)/60.0, 0.3, 1.0)
}

// ExtractBaselines 从档案提取基线评分
//
// profile == nil 时从先验分布随机采样；profile 存在但缺少
// cognitive_baseline 时替换为缺省值（绝不报错）。
func ExtractBaselines(rng *rand.Rand, profile *models.PatientProfile) Baselines {
	var mmse, moca, dep int
	if profile == nil {
		mmse = randInt(rng, 22, 29)
		moca = randInt(rng, 20, 28)
		dep = randInt(rng, 0, 14)
	} else if cb := profile.CognitiveBaseline; cb != nil {
		mmse = cb.MMSE
		moca = cb.MoCA
		dep = cb.DepressionScore
	} else {
		mmse = DefaultMMSE
		moca = DefaultMoCA
		dep = DefaultDepression
	}
	return Baselines{
		CF:         CognitiveFactor(mmse, moca),
		MMSE:       mmse,
		MoCA:       moca,
		Depression: dep,
	}
}

// DepressionPenalty 抑郁惩罚：跨所有域共享的唯一耦合常数
// 从注意力/执行/记忆/反应时间/情绪基线中按域缩放后扣除。
func (b Baselines) DepressionPenalty() float64 {
	p := float64(b.Depression) * 0.005
	if p > 0.15 {
		return 0.15
	}
	return p
}
