package simulator

import (
	"math/rand"

	"carehaven-edgesim/internal/models"
)

// 移动能力域：可穿戴设备步态/步数指标
//
// 该域没有每患者潜在基线，逐日独立采样；跌倒为 2% 的低概率事件。
// 信号质量模拟可穿戴采集保真度，与认知内容无关。

const fallProbability = 0.02

func newMobilityPatient(_ *rand.Rand, _ *models.PatientProfile) daySimulator {
	return func(rng *rand.Rand, _ int) (any, *float64) {
		gait := clampF(round2(normal(rng, 0.9, 0.15)), 0.4, 1.5)
		stride := clampF(round1(normal(rng, 14, 5)), 5, 30)
		steps := clampI(int(normal(rng, 4000, 1500)), 500, 15000)
		fall := bernoulli(rng, fallProbability)
		quality := round2(uniform(rng, 0.85, 1.0))

		return models.MobilityMetrics{
			GaitSpeedMps:        gait,
			StrideVariabilityPct: stride,
			DailySteps:          steps,
			FallDetected:        fall,
		}, &quality
	}
}
