package simulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntrusionErrors_ZeroOrOne(t *testing.T) {
	rng := NewRand(3)
	for i := 0; i < 200; i++ {
		n := intrusionErrors(rng, 5, 0, 0.3, 27)
		assert.GreaterOrEqual(t, n, 0)
		assert.LessOrEqual(t, n, 1)
	}
}

func TestIntrusionErrors_LowRiskRarelyFires(t *testing.T) {
	// 高认知、无回忆差、无抑郁：p = 0.10，长程频率应接近 0.10
	rng := NewRand(11)
	fired := 0
	const n = 5000
	for i := 0; i < n; i++ {
		fired += intrusionErrors(rng, 5, 5, 1.0, 0)
	}
	rate := float64(fired) / n
	assert.InDelta(t, 0.10, rate, 0.02)
}

func TestIntrusionErrors_HighRiskCappedAt040(t *testing.T) {
	// 最大化所有风险项：p 裁剪到 0.40
	rng := NewRand(12)
	fired := 0
	const n = 5000
	for i := 0; i < n; i++ {
		fired += intrusionErrors(rng, 5, 0, 0.3, 30)
	}
	rate := float64(fired) / n
	assert.InDelta(t, 0.40, rate, 0.02)
}

func TestMissedTrials_ZeroWhenFast(t *testing.T) {
	rng := NewRand(4)
	for i := 0; i < 100; i++ {
		assert.Equal(t, 0, missedTrials(rng, 600))
		assert.Equal(t, 0, missedTrials(rng, 400))
	}
}

func TestMissedTrials_NonNegativeWhenSlow(t *testing.T) {
	rng := NewRand(5)
	positive := 0
	for i := 0; i < 500; i++ {
		n := missedTrials(rng, 1100)
		assert.GreaterOrEqual(t, n, 0)
		if n > 0 {
			positive++
		}
	}
	// 中心 (1100-600)/160 ≈ 3.1，绝大多数应为正
	assert.Greater(t, positive, 400)
}

func TestAttentionErrors_ScalesWithLowSpan(t *testing.T) {
	rngLow := NewRand(6)
	rngHigh := NewRand(6)

	lowSpanTotal, highSpanTotal := 0, 0
	for i := 0; i < 500; i++ {
		lowSpanTotal += attentionErrors(rngLow, 2)
		highSpanTotal += attentionErrors(rngHigh, 8)
	}

	// 广度 2 → 中心 2.4；广度 8 → 中心为负，几乎全部截断为 0
	assert.Greater(t, lowSpanTotal, highSpanTotal)
	assert.LessOrEqual(t, highSpanTotal, 3)
}
