package simulator

import (
	"math/rand"

	"carehaven-edgesim/internal/models"
)

// 执行功能域：TMT-B 完成时间 + 符号数字正确数
//
// 完成时间下降 = 改善，符号数字上升 = 改善（方向相反的同一相位模型）。
// 练习增益与晚期回落速率按患者采样；回落不按 cf 门控（轻度疲劳效应，
// 所有患者第 10 天后均适用）。

var executiveTrend = Trend{PracticeCutoff: 4, DeclineStart: 10}

type executiveBaseline struct {
	tmt              float64
	sdmt             float64
	practiceGainTmt  float64 // 练习期每天提速（秒）
	practiceGainSdmt float64 // 练习期每天多对题数
	lateDeclineTmt   float64
	lateDeclineSdmt  float64
}

func newExecutivePatient(rng *rand.Rand, profile *models.PatientProfile) daySimulator {
	b := ExtractBaselines(rng, profile)
	perf := b.CF

	base := executiveBaseline{
		tmt:              clampF(normal(rng, 170-perf*80, 15), 65, 260),
		sdmt:             clampF(normal(rng, 30+perf*30, 4), 15, 70),
		practiceGainTmt:  uniform(rng, 0.5, 1.5),
		practiceGainSdmt: uniform(rng, 0.6, 1.4),
		lateDeclineTmt:   uniform(rng, 0.05, 0.25),
		lateDeclineSdmt:  uniform(rng, 0.05, 0.20),
	}

	return func(rng *rand.Rand, dayIndex int) (any, *float64) {
		practice := float64(executiveTrend.PracticeDays(dayIndex))
		decline := float64(executiveTrend.DeclineDays(dayIndex))

		tmt := base.tmt - base.practiceGainTmt*practice + base.lateDeclineTmt*decline
		sdmt := base.sdmt + base.practiceGainSdmt*practice - base.lateDeclineSdmt*decline

		tmt = clampF(normal(rng, tmt, 6), 55, 300)
		sdmt = clampF(normal(rng, sdmt, 2.5), 10, 80)

		// 错误数与较慢的完成时间相关
		errors := clampI(int(normal(rng, (tmt-60)/50, 1)), 0, 12)

		return models.ExecutiveTestMetrics{
			TmtBCompletionSec:  roundI(tmt),
			Errors:             errors,
			SymbolDigitCorrect: roundI(sdmt),
		}, nil
	}
}
