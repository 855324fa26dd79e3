package simulator

// Trend 时间趋势模型：练习期改善 → 平台期 → 可选晚期下降
//
// 所有认知域共享同一状态机形状，各域仅常数不同（练习截止日、
// 下降起始日、损伤阈值）。改善方向因字段而异：完成时间下降=改善，
// 词数上升=改善，由各域模拟器自行决定加减号。
type Trend struct {
	PracticeCutoff int     // 练习期最后一天（含）
	DeclineStart   int     // 晚期下降起始日（day > DeclineStart 才生效）
	ImpairmentCF   float64 // 认知因子低于该阈值才可能下降（0 = 不按 cf 门控）
}

// PracticeDays 返回截至 day 的有效练习天数（进入平台期后锁定在截止值）
func (t Trend) PracticeDays(day int) int {
	if day > t.PracticeCutoff {
		return t.PracticeCutoff
	}
	return day
}

// DeclineDays 返回 day 相对下降起始日的天数（未到起始日为 0）
func (t Trend) DeclineDays(day int) int {
	if t.DeclineStart <= 0 || day <= t.DeclineStart {
		return 0
	}
	return day - t.DeclineStart
}

// DeclineActive 判断指定认知因子的患者在 day 是否处于下降期
func (t Trend) DeclineActive(cf float64, day int) bool {
	if t.DeclineDays(day) == 0 {
		return false
	}
	if t.ImpairmentCF > 0 && cf >= t.ImpairmentCF {
		return false
	}
	return true
}

// PracticeMultiplier 多域会话用的乘性练习系数
// day 0 从 0.75 起步，每天 +0.07，封顶 1.0（练习期过后恒为 1.0）。
func (t Trend) PracticeMultiplier(day int) float64 {
	if day > t.PracticeCutoff {
		return 1.0
	}
	m := 0.75 + 0.07*float64(day)
	if m > 1.0 {
		return 1.0
	}
	return m
}
