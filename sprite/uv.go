package sprite

// UV is the texture transform selecting one atlas cell
type UV struct {
	OffsetU, OffsetV float64
	RepeatU, RepeatV float64
}

// UVFor maps a frame to its cell in a rows x columns atlas
// V is not flipped: row 0 is at offset 0
func UVFor(f Frame, rows, columns int) UV {
	return UV{
		OffsetU: float64(f.Col) / float64(columns),
		OffsetV: float64(f.Row) / float64(rows),
		RepeatU: 1 / float64(columns),
		RepeatV: 1 / float64(rows),
	}
}
