// Package sprite slices a face atlas into frames and plays them on an independent timer
package sprite

import (
	"fmt"

	"github.com/lixenwraith/moodrig/mood"
)

// Frame is one atlas cell
type Frame struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Index is a row/column position used for range endpoints
type Index struct {
	Row int
	Col int
}

// Def describes one sprite animation
// Either Frames is set, or Start and End describe an inclusive range expanded row-major
type Def struct {
	Kind   mood.Kind
	Frames []Frame
	Start  *Index
	End    *Index
	FPS    float64
	Loop   bool
}

// Resolve returns the frame list of d, expanding a range against columns
// A range takes precedence over an explicit list
func (d Def) Resolve(columns int) ([]Frame, error) {
	frames := d.Frames
	if d.Start != nil && d.End != nil {
		frames = Expand(*d.Start, *d.End, columns)
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFrames, d.Kind)
	}
	return frames, nil
}

// Expand walks rows from start to end, each row spanning the full width except the first
// (from start.Col) and the last (to end.Col)
// Row and column directions follow the sign of the difference
func Expand(start, end Index, columns int) []Frame {
	var frames []Frame

	rowStep := 1
	if start.Row > end.Row {
		rowStep = -1
	}

	for row := start.Row; ; row += rowStep {
		colStart := 0
		if row == start.Row {
			colStart = start.Col
		}
		colEnd := columns - 1
		if row == end.Row {
			colEnd = end.Col
		}

		colStep := 1
		if colStart > colEnd {
			colStep = -1
		}
		for col := colStart; ; col += colStep {
			frames = append(frames, Frame{Row: row, Col: col})
			if col == colEnd {
				break
			}
		}

		if row == end.Row {
			break
		}
	}

	return frames
}
