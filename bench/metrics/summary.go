package metrics

import (
	"math"
	"time"
)

// Summary 不保存样本的分布统计：次数、和、平方和、最小值、最大值
type Summary struct {
	sum   float64
	sumSq float64
	min   float64
	max   float64
	count int64
}

// SummaryResult Summary 的汇总结果
type SummaryResult struct {
	Average float64
	StDev   float64
	Min     float64
	Max     float64
	Count   int64
}

// Add 记录一个样本
func (s *Summary) Add(val float64) {
	if s.count == 0 {
		s.min, s.max = val, val
	} else {
		s.min = math.Min(s.min, val)
		s.max = math.Max(s.max, val)
	}
	s.sumSq = math.FMA(val, val, s.sumSq)
	s.sum += val
	s.count++
}

// Count 返回样本数
func (s *Summary) Count() int64 {
	return s.count
}

// Result 计算平均值、总体标准差、最小值和最大值；无样本时返回零值
func (s *Summary) Result() SummaryResult {
	if s.count == 0 {
		return SummaryResult{}
	}
	n := float64(s.count)
	avg := s.sum / n
	// E[x²] - E[x]²，舍入误差可能为负，截断到 0
	variance := math.FMA(-avg, avg, s.sumSq/n)
	if variance < 0 {
		variance = 0
	}
	return SummaryResult{
		Average: avg,
		StDev:   math.Sqrt(variance),
		Min:     s.min,
		Max:     s.max,
		Count:   s.count,
	}
}

// Stopwatch 从创建时刻起计时
type Stopwatch struct {
	begin time.Time
}

// StartStopwatch 开始计时
func StartStopwatch() Stopwatch {
	return Stopwatch{begin: time.Now()}
}

// ElapsedMilliseconds 返回已耗时（毫秒，含小数）
func (sw Stopwatch) ElapsedMilliseconds() float64 {
	return float64(time.Since(sw.begin).Nanoseconds()) / 1e6
}
