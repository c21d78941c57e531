package blend

import "time"

// transition is a per-frame linear ramp owned by the controller
// apply receives alpha in [0,1]; done runs once after alpha reaches 1
type transition struct {
	elapsed  time.Duration
	duration time.Duration
	apply    func(alpha float64)
	done     func()
}

// step advances the ramp by dt and reports completion
// A non-positive duration completes on the first step
func (t *transition) step(dt time.Duration) bool {
	t.elapsed += dt

	alpha := 1.0
	if t.duration > 0 {
		alpha = float64(t.elapsed) / float64(t.duration)
		if alpha > 1 {
			alpha = 1
		}
	}

	t.apply(alpha)
	if alpha < 1 {
		return false
	}
	if t.done != nil {
		t.done()
	}
	return true
}
