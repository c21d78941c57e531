package mood

import "strings"

// Kind identifies a mood anchor
type Kind int

const (
	// Idle is the neutral mood at the origin
	Idle Kind = iota
	Happy
	Sad
	Energetic
	Lazy

	kindCount
)

var kindNames = [kindCount]string{
	Idle:      "idle",
	Happy:     "happy",
	Sad:       "sad",
	Energetic: "energetic",
	Lazy:      "lazy",
}

// String returns the lower-case kind name used in clip names and events
func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind resolves a kind from its name, case-insensitive
func ParseKind(name string) (Kind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k := Kind(0); k < kindCount; k++ {
		if kindNames[k] == name {
			return k, true
		}
	}
	return Idle, false
}

// Kinds returns every mood kind in declaration order
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}
