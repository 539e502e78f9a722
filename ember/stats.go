package ember

import (
	"fmt"
	"time"
)

// FrameTimes keeps a smoothed view on recent frame durations.
type FrameTimes struct {
	FrameCount      uint64
	AverageDuration time.Duration
	MaxDuration     time.Duration

	// Delta time to previous frame
	Delta time.Duration

	lastTime time.Time
}

func (t *FrameTimes) update(d time.Duration) {
	const window = 64

	t.Delta = d
	t.MaxDuration = max(t.MaxDuration, d)

	if t.FrameCount < window/2 {
		t.AverageDuration = d
	} else {
		t.AverageDuration = ((window-1)*t.AverageDuration + d) / window
	}
}

func (t *FrameTimes) FPS() float64 {
	if t.AverageDuration == 0 {
		return 0
	}

	return 1.0 / t.AverageDuration.Seconds()
}

// Tick records the start of a new frame.
func (t *FrameTimes) Tick() {
	now := time.Now()

	if t.FrameCount > 0 {
		t.update(now.Sub(t.lastTime))
	}

	t.lastTime = now
	t.FrameCount += 1
}

func (t *FrameTimes) String() string {
	return fmt.Sprintf("%1.1f fps (avg %s, max %s)",
		t.FPS(), t.AverageDuration.Round(10*time.Microsecond), t.MaxDuration.Round(10*time.Microsecond))
}
