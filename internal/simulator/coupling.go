package simulator

import "math/rand"

// 跨域耦合：由同一会话内已生成的独立量派生依赖量。
// 全部为纯函数，权重常数为经验取值（可调，非临床验证）。

// 插入错误概率权重
const (
	intrusionBaseProb   = 0.10
	intrusionGapWeight  = 0.05 // 回忆差（immediate - delayed）每词权重
	intrusionCFWeight   = 0.16 // 低认知因子（0.55 - cf）权重
	intrusionDepWeight  = 0.12 // 抑郁评分（dep/30）权重
	intrusionProbFloor  = 0.01
	intrusionProbCeil   = 0.40
)

// intrusionErrors 插入错误：Bernoulli(p)
// p = 0.10 + 0.05*max(0, imm-delayed) + 0.16*max(0, 0.55-cf) + 0.12*(dep/30)
// p 裁剪到 [0.01, 0.40]。
func intrusionErrors(rng *rand.Rand, immediate, delayed int, cf float64, depression int) int {
	p := intrusionBaseProb
	if gap := immediate - delayed; gap > 0 {
		p += float64(gap) * intrusionGapWeight
	}
	if impaired := 0.55 - cf; impaired > 0 {
		p += impaired * intrusionCFWeight
	}
	p += float64(depression) / 30.0 * intrusionDepWeight
	p = clampF(p, intrusionProbFloor, intrusionProbCeil)

	if bernoulli(rng, p) {
		return 1
	}
	return 0
}

// missedTrials 漏试次数：仅当反应时间超过 600ms 时非零，
// 高斯中心 (rt-600)/160，下限 0。
func missedTrials(rng *rand.Rand, reactionTimeMs int) int {
	if reactionTimeMs <= 600 {
		return 0
	}
	n := int(normal(rng, float64(reactionTimeMs-600)/160.0, 0.6))
	if n < 0 {
		return 0
	}
	return n
}

// attentionErrors 注意力错误数：高斯中心 (6-digitSpan)*0.6，下限 0
func attentionErrors(rng *rand.Rand, digitSpan int) int {
	n := int(normal(rng, float64(6-digitSpan)*0.6, 0.7))
	if n < 0 {
		return 0
	}
	return n
}
