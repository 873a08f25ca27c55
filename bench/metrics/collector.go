// Package metrics 提供计时统计、运行时指标采集与压测日志格式
package metrics

import (
	"runtime"
	"runtime/debug"
	"time"
)

// Snapshot 运行时指标快照
type Snapshot struct {
	TS           time.Time
	HeapAlloc    uint64
	TotalAlloc   uint64
	NumGC        uint32
	NumGoroutine int
}

// Take 采集当前运行时指标
func Take() Snapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return Snapshot{
		TS:           time.Now(),
		HeapAlloc:    m.HeapAlloc,
		TotalAlloc:   m.TotalAlloc,
		NumGC:        m.NumGC,
		NumGoroutine: runtime.NumGoroutine(),
	}
}

// GC 触发 GC 并释放回 OS，避免计时循环承担向量生成留下的垃圾
func GC() {
	runtime.GC()
	debug.FreeOSMemory()
}

// Delta 两次快照之间的差值
type Delta struct {
	Elapsed      time.Duration
	AllocBytes   uint64
	AllocRateBps float64
	GCs          uint32
}

// Diff 计算两次快照间的分配量、分配速率（bytes/s）和 GC 次数差
func Diff(before, after Snapshot) Delta {
	d := Delta{Elapsed: after.TS.Sub(before.TS)}
	if after.TotalAlloc > before.TotalAlloc {
		d.AllocBytes = after.TotalAlloc - before.TotalAlloc
	}
	if secs := d.Elapsed.Seconds(); secs > 0 {
		d.AllocRateBps = float64(d.AllocBytes) / secs
	}
	if after.NumGC >= before.NumGC {
		d.GCs = after.NumGC - before.NumGC
	}
	return d
}
