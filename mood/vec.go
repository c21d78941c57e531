package mood

import "math"

// Vec2 is a point in mood space
// X runs sad (-1) to happy (+1), Y runs lazy (-1) to energetic (+1)
type Vec2 struct {
	X, Y float64
}

// Distance returns the Euclidean distance between a and b
func (a Vec2) Distance(b Vec2) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
