package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-shadows/engine/logger"
)

// FrameStats is the per-frame shadow work fed to Tick.
type FrameStats struct {
	Drained int
	Passes  int
	Skipped int
}

// Report is one interval's worth of aggregated statistics.
type Report struct {
	FPS           float64
	Frames        int
	LightsDrained int
	Passes        int
	Skipped       int
	HeapMB        float64
	AllocRateMB   float64
	GCCount       uint32
	LastPauseUs   uint64
	MaxPauseUs    uint64
	SysMB         float64
}

// Profiler tracks frame rate, shadow work and memory statistics.
// Outputs stats to the logger at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	drained int
	passes  int
	skipped int

	last Report
	now  func() time.Time
}

// NewProfiler creates a new Profiler.
// Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options applied after defaults
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
	}
	for _, option := range options {
		option(p)
	}
	p.lastTime = p.now()
	return p
}

// Last returns the most recent report. It is zero until the first interval elapses.
func (p *Profiler) Last() Report {
	return p.last
}

// Tick should be called once per frame with that frame's shadow work.
// Logs a report when the update interval has elapsed.
//
// Parameters:
//   - stats: the frame's drained, pass and skip counts
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(stats FrameStats) bool {
	p.frameCount++
	p.drained += stats.Drained
	p.passes += stats.Passes
	p.skipped += stats.Skipped

	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)

	r := Report{
		FPS:           float64(p.frameCount) / elapsed.Seconds(),
		Frames:        p.frameCount,
		LightsDrained: p.drained,
		Passes:        p.passes,
		Skipped:       p.skipped,
		HeapMB:        float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:         float64(p.memStats.Sys) / 1024 / 1024,
		AllocRateMB:   float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:       p.memStats.NumGC,
	}

	if gcCount := p.memStats.NumGC; gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 pauses
		r.LastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			r.MaxPauseUs = max(r.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	logger.Logger().Info("profiler",
		"fps", r.FPS,
		"lights_drained", r.LightsDrained,
		"shadow_passes", r.Passes,
		"skipped", r.Skipped,
		"heap_mb", r.HeapMB,
		"alloc_rate_mb", r.AllocRateMB,
		"gc", r.GCCount,
		"gc_last_us", r.LastPauseUs,
		"gc_max_us", r.MaxPauseUs,
		"sys_mb", r.SysMB,
	)

	p.last = r
	p.frameCount = 0
	p.drained, p.passes, p.skipped = 0, 0, 0
	p.lastTime = currentTime
	p.lastGCCount = r.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
