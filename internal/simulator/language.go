package simulator

import (
	"math/rand"

	"carehaven-edgesim/internal/models"
)

// 语言域：言语流畅性任务（词数、停顿、发音速率、情感）
//
// 趋势为逐日线性漂移（轻微下降或稳定，情感缓慢改善）；停顿与流畅度
// 负相关（流畅度走低时停顿拉长）。信号质量模拟音频采集保真度：
// 停顿过长或发音速率过低时轻微降级。

type languageBaseline struct {
	fluency        float64 // 60 秒任务产出词数
	pauseMs        float64
	articulation   float64 // 说话片段词/秒
	sentiment      float64
	fluencyTrend   float64 // 每天词数变化
	articTrend     float64
	sentimentDrift float64
}

func newLanguagePatient(rng *rand.Rand, _ *models.PatientProfile) daySimulator {
	base := languageBaseline{
		fluency:        clampF(normal(rng, 18, 5), 5, 40),
		pauseMs:        clampF(normal(rng, 1200, 300), 400, 3000),
		articulation:   clampF(normal(rng, 2.2, 0.4), 0.8, 3.5),
		sentiment:      clampF(normal(rng, 0.55, 0.15), 0.1, 0.95),
		fluencyTrend:   normal(rng, -0.03, 0.02),
		articTrend:     normal(rng, -0.002, 0.002),
		sentimentDrift: normal(rng, 0.0005, 0.001),
	}

	return func(rng *rand.Rand, dayIndex int) (any, *float64) {
		day := float64(dayIndex)
		fluencyMean := base.fluency + base.fluencyTrend*day
		articMean := base.articulation + base.articTrend*day
		sentimentMean := base.sentiment + base.sentimentDrift*day
		pauseMean := base.pauseMs * (base.fluency / maxF(1, fluencyMean))

		fluency := clampF(normal(rng, fluencyMean, 3), 3, 45)
		artic := clampF(normal(rng, articMean, 0.15), 0.6, 3.8)
		pause := clampF(normal(rng, pauseMean, 250), 300, 4000)
		sentiment := clampF(normal(rng, sentimentMean, 0.07), 0, 1)

		penalty := 0.0
		if pause > 2500 {
			penalty += 0.05
		}
		if artic < 1.0 {
			penalty += 0.05
		}
		quality := round2(maxF(0.75, 1.0-penalty-uniform(rng, 0, 0.05)))

		return models.LanguageMetrics{
			VerbalFluencyWords:  roundI(fluency),
			AvgPauseMs:          roundI(pause),
			ArticulationRateWps: round2(artic),
			SentimentScore:      round2(sentiment),
		}, &quality
	}
}
