package character

// Op selects a queued command
type Op int

const (
	OpSetMood Op = iota
	OpPlayEmote
	OpPause
	OpResume
	OpToggleAutoEmotes
	OpBodyPartChanged
)

var opNames = map[Op]string{
	OpSetMood:          "set_mood",
	OpPlayEmote:        "play_emote",
	OpPause:            "pause",
	OpResume:           "resume",
	OpToggleAutoEmotes: "auto_emotes",
	OpBodyPartChanged:  "body_part",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return "unknown"
}

// ParseOp resolves an op from its wire name
func ParseOp(name string) (Op, bool) {
	for op, n := range opNames {
		if n == name {
			return op, true
		}
	}
	return 0, false
}

// Command is a request applied on the host goroutine during the next Update
// Result, when set, receives the outcome; it must be buffered
type Command struct {
	Op       Op
	X, Y     float64
	Name     string // emote name, or part kind for OpBodyPartChanged
	PartName string
	Enabled  bool
	Result   chan error
}

// SetMood builds a mood change command
func SetMood(x, y float64) Command { return Command{Op: OpSetMood, X: x, Y: y} }

// PlayEmote builds a manual emote command
func PlayEmote(name string) Command { return Command{Op: OpPlayEmote, Name: name} }

// Pause builds a pause command
func Pause() Command { return Command{Op: OpPause} }

// Resume builds a resume command
func Resume() Command { return Command{Op: OpResume} }

// ToggleAutoEmotes builds an auto emote toggle command
func ToggleAutoEmotes(enabled bool) Command {
	return Command{Op: OpToggleAutoEmotes, Enabled: enabled}
}

// BodyPartChanged builds a body part swap notification
func BodyPartChanged(kind, name string) Command {
	return Command{Op: OpBodyPartChanged, Name: kind, PartName: name}
}
