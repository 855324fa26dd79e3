package simulator

import (
	"math"
	"math/rand"
	"time"
)

// NewRand 创建显式传递的随机源
// seed = 0 时按当前时间播种（非确定性）；否则结果在相同 seed 下可复现。
// 随机源绝不使用进程级全局状态，并行扇出时每个 worker 用
// baseSeed+patientIndex 派生独立实例即可保持可复现。
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// normal 高斯采样：均值 mean，标准差 sigma
func normal(rng *rand.Rand, mean, sigma float64) float64 {
	return rng.NormFloat64()*sigma + mean
}

// uniform 均匀采样 [lo, hi)
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// randInt 均匀整数采样 [lo, hi]（两端含）
func randInt(rng *rand.Rand, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}

// triangular 三角分布采样 [lo, hi]，众数 mode
func triangular(rng *rand.Rand, lo, hi, mode float64) float64 {
	u := rng.Float64()
	c := (mode - lo) / (hi - lo)
	if u < c {
		return lo + math.Sqrt(u*(hi-lo)*(mode-lo))
	}
	return hi - math.Sqrt((1-u)*(hi-lo)*(hi-mode))
}

// bernoulli 以概率 p 返回 true
func bernoulli(rng *rand.Rand, p float64) bool {
	return rng.Float64() < p
}

// clampF 将 v 限制到闭区间 [lo, hi]
func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampI 将 v 限制到闭区间 [lo, hi]
func clampI(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// roundI 取整策略：计数类字段四舍五入到最近整数
func roundI(v float64) int {
	return int(math.Round(v))
}

// round2 取整策略：比率类字段保留两位小数
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// round1 保留一位小数
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
