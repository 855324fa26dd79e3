package simulator

import (
	"math/rand"

	"carehaven-edgesim/internal/models"
)

// 记忆域：MoCA 回忆风格的 5 词列表测试
//
// 练习效应小且短暂（第 0-2 天），之后平台；cf < 0.6 的患者以 50% 概率
// 进入第 15 天后的晚期缓慢下降。延迟回忆不得超过当天的立即回忆。

const memoryMaxWords = 5

var memoryTrend = Trend{PracticeCutoff: 2, DeclineStart: 15, ImpairmentCF: 0.6}

type memoryBaseline struct {
	immediate       float64
	delayed         float64
	lateDeclineRate float64 // 0 = 无下降
	intrusionsProb  float64
}

func newMemoryPatient(rng *rand.Rand, profile *models.PatientProfile) daySimulator {
	b := ExtractBaselines(rng, profile)
	cog := b.CF

	base := memoryBaseline{}
	base.immediate = normal(rng, 3.2+1.5*cog, 0.6)
	base.delayed = base.immediate - normal(rng, 0.8-0.9*cog, 0.4)
	base.immediate = clampF(base.immediate, 0.5, memoryMaxWords)
	base.delayed = clampF(base.delayed, 0, base.immediate)

	// 晚期下降按患者随机门控
	if cog < memoryTrend.ImpairmentCF && bernoulli(rng, 0.5) {
		base.lateDeclineRate = uniform(rng, 0.02, 0.08)
	}
	base.intrusionsProb = maxF(0.01, 0.15-0.12*cog)

	return func(rng *rand.Rand, dayIndex int) (any, *float64) {
		practice := float64(memoryTrend.PracticeDays(dayIndex))
		immediate := base.immediate + 0.25*practice
		delayed := base.delayed + 0.20*practice

		if base.lateDeclineRate > 0 {
			declineDays := float64(memoryTrend.DeclineDays(dayIndex))
			immediate -= base.lateDeclineRate * 0.4 * declineDays
			delayed -= base.lateDeclineRate * declineDays
		}

		imm := clampI(roundI(normal(rng, immediate, 0.5)), 0, memoryMaxWords)
		del := clampI(roundI(normal(rng, delayed, 0.6)), 0, imm)

		// 回忆差 >1 时插入概率上升
		p := base.intrusionsProb
		if gap := imm - del; gap > 1 {
			p += 0.06 * float64(gap-1)
		}
		intrusions := 0
		if bernoulli(rng, minF(p, 0.35)) {
			intrusions = 1
		}

		return models.MemoryTestMetrics{
			ImmediateRecallCorrect: imm,
			DelayedRecallCorrect:   del,
			IntrusionErrors:        intrusions,
		}, nil
	}
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
