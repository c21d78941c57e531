package main

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/moodrig/character"
	"github.com/lixenwraith/moodrig/mood"
	"github.com/lixenwraith/moodrig/server"
)

const (
	planeHalfW = 16
	planeHalfH = 8
	moodStep   = 0.1
	moodLimit  = 1.2
	noticeTTL  = 3 * time.Second
	barWidth   = 20
)

var moodStyles = map[string]tcell.Style{
	"idle":      tcell.StyleDefault.Foreground(tcell.ColorWhite),
	"happy":     tcell.StyleDefault.Foreground(tcell.ColorYellow),
	"sad":       tcell.StyleDefault.Foreground(tcell.ColorBlue),
	"energetic": tcell.StyleDefault.Foreground(tcell.ColorRed),
	"lazy":      tcell.StyleDefault.Foreground(tcell.ColorPurple),
}

// Viewer draws one character and turns keys into commands
type Viewer struct {
	screen tcell.Screen
	src    source
	rows   int
	cols   int

	// target is the mood position the viewer last asked for
	targetX, targetY float64
	synced           bool

	notice     string
	noticeTime time.Time
}

func NewViewer(screen tcell.Screen, src source, rows, cols int) *Viewer {
	return &Viewer{screen: screen, src: src, rows: rows, cols: cols}
}

func (v *Viewer) setNotice(msg string) {
	v.notice = msg
	v.noticeTime = time.Now()
}

func (v *Viewer) send(msg server.CommandMessage) {
	if err := v.src.Send(msg); err != nil {
		v.setNotice(fmt.Sprintf("%s: %v", msg.Op, err))
	}
}

func (v *Viewer) moveMood(dx, dy float64) {
	snap := v.src.Snapshot()
	if !v.synced {
		v.targetX, v.targetY = snap.X, snap.Y
		v.synced = true
	}
	v.targetX = clamp(round1(v.targetX+dx), -moodLimit, moodLimit)
	v.targetY = clamp(round1(v.targetY+dy), -moodLimit, moodLimit)
	v.send(server.CommandMessage{Op: character.OpSetMood.String(), X: v.targetX, Y: v.targetY})
}

func (v *Viewer) jumpMood(x, y float64) {
	v.targetX, v.targetY, v.synced = x, y, true
	v.send(server.CommandMessage{Op: character.OpSetMood.String(), X: x, Y: y})
}

// HandleInput returns false when the viewer should exit
func (v *Viewer) HandleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			v.moveMood(-moodStep, 0)
		case tcell.KeyRight:
			v.moveMood(moodStep, 0)
		case tcell.KeyUp:
			v.moveMood(0, moodStep)
		case tcell.KeyDown:
			v.moveMood(0, -moodStep)
		case tcell.KeyTab:
			v.src.Next()
			v.synced = false
		case tcell.KeyRune:
			return v.handleRune(ev.Rune())
		}
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

func (v *Viewer) handleRune(r rune) bool {
	switch r {
	case 'q':
		return false
	case 'h':
		v.moveMood(-moodStep, 0)
	case 'l':
		v.moveMood(moodStep, 0)
	case 'k':
		v.moveMood(0, moodStep)
	case 'j':
		v.moveMood(0, -moodStep)
	case '0':
		v.jumpMood(0, 0)
	case 'H':
		v.jumpMood(1, 0)
	case 'S':
		v.jumpMood(-1, 0)
	case 'E':
		v.jumpMood(0, 1)
	case 'L':
		v.jumpMood(0, -1)
	case 'p':
		if v.src.Snapshot().Paused {
			v.send(server.CommandMessage{Op: character.OpResume.String()})
		} else {
			v.send(server.CommandMessage{Op: character.OpPause.String()})
		}
	case 'a':
		v.send(server.CommandMessage{Op: character.OpToggleAutoEmotes.String(), Enabled: !v.src.Snapshot().AutoEmotes})
	default:
		if r >= '1' && r <= '9' {
			emotes := v.src.Snapshot().Emotes
			if i := int(r - '1'); i < len(emotes) {
				v.send(server.CommandMessage{Op: character.OpPlayEmote.String(), Name: emotes[i]})
			}
		}
	}
	return true
}

// Draw renders the latest snapshot
func (v *Viewer) Draw() {
	v.screen.Clear()
	snap := v.src.Snapshot()
	bold := tcell.StyleDefault.Bold(true)
	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)

	drawText(v.screen, 1, 0, bold, fmt.Sprintf("moodrig  %s  [%s]", snap.ID, v.src.Label()))

	v.drawPlane(1, 2, snap)

	x := 2*planeHalfW + 6
	y := 2
	style := styleFor(snap.Dominant)
	drawText(v.screen, x, y, style.Bold(true), fmt.Sprintf("mood %-9s (%+.2f, %+.2f)", snap.Dominant, snap.X, snap.Y))
	y++
	drawText(v.screen, x, y, tcell.StyleDefault, fmt.Sprintf("state %-12s stable %.1fs", snap.State, snap.StableTime))
	y++
	emote := snap.ActiveEmote
	if emote == "" {
		emote = "-"
	}
	drawText(v.screen, x, y, tcell.StyleDefault, fmt.Sprintf("emote %-26s %s", emote, bar(snap.EmoteWeight, 10)))
	y++
	drawText(v.screen, x, y, tcell.StyleDefault, fmt.Sprintf("paused %-5v auto emotes %v", snap.Paused, snap.AutoEmotes))
	y += 2

	for _, kind := range mood.Kinds() {
		name := kind.String()
		w, ok := snap.Weights[name]
		if !ok {
			continue
		}
		drawText(v.screen, x, y, styleFor(name), fmt.Sprintf("%-9s %s %.2f", name, bar(w, barWidth), w))
		y++
	}
	y++

	face := snap.Face
	if !snap.FaceReady {
		face = "not ready"
	}
	drawText(v.screen, x, y, tcell.StyleDefault, fmt.Sprintf("face %-10s cell %d,%d", face, snap.FaceFrame.Row, snap.FaceFrame.Col))
	y++
	v.drawAtlas(x, y, snap)

	help := 2*planeHalfH + 4
	for i, name := range snap.Emotes {
		if i >= 9 {
			break
		}
		st := dim
		if name == snap.ActiveEmote {
			st = bold
		}
		drawText(v.screen, 1, help+i, st, fmt.Sprintf("%d %s", i+1, name))
	}
	drawText(v.screen, 1, help+min(len(snap.Emotes), 9)+1, dim,
		"arrows/hjkl move  0 H S E L jump  1-9 emote  p pause  a auto  tab next  q quit")

	if v.notice != "" && time.Since(v.noticeTime) < noticeTTL {
		drawText(v.screen, 1, help+min(len(snap.Emotes), 9)+2, tcell.StyleDefault.Foreground(tcell.ColorRed), v.notice)
	}

	v.screen.Show()
}

// drawPlane plots anchors and the current position; +y is up
func (v *Viewer) drawPlane(ox, oy int, snap character.Snapshot) {
	axis := tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	cx, cy := ox+planeHalfW, oy+planeHalfH
	for i := -planeHalfW; i <= planeHalfW; i++ {
		v.screen.SetContent(cx+i, cy, '─', nil, axis)
	}
	for j := -planeHalfH; j <= planeHalfH; j++ {
		v.screen.SetContent(cx, cy+j, '│', nil, axis)
	}
	v.screen.SetContent(cx, cy, '┼', nil, axis)

	for _, a := range character.DefaultAnchors {
		px, py := planeCell(cx, cy, a.X, a.Y)
		label := []rune(strings.ToUpper(a.Kind.String()))[0]
		v.screen.SetContent(px, py, label, nil, styleFor(a.Kind.String()))
	}

	px, py := planeCell(cx, cy, snap.X, snap.Y)
	v.screen.SetContent(px, py, '@', nil, styleFor(snap.Dominant).Bold(true).Reverse(true))
}

// drawAtlas shows the face atlas grid with the current cell highlighted
func (v *Viewer) drawAtlas(ox, oy int, snap character.Snapshot) {
	off := tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	on := styleFor(snap.Face).Reverse(true)
	for r := 0; r < v.rows; r++ {
		for c := 0; c < v.cols; c++ {
			st, ch := off, '·'
			if snap.FaceReady && r == snap.FaceFrame.Row && c == snap.FaceFrame.Col {
				st, ch = on, '■'
			}
			v.screen.SetContent(ox+c*2, oy+r, ch, nil, st)
		}
	}
}

func planeCell(cx, cy int, x, y float64) (int, int) {
	px := cx + int(math.Round(clamp(x/moodLimit, -1, 1)*planeHalfW))
	py := cy - int(math.Round(clamp(y/moodLimit, -1, 1)*planeHalfH))
	return px, py
}

func styleFor(kind string) tcell.Style {
	if st, ok := moodStyles[kind]; ok {
		return st
	}
	return tcell.StyleDefault
}

func bar(w float64, width int) string {
	n := int(math.Round(clamp(w, 0, 1) * float64(width)))
	return strings.Repeat("█", n) + strings.Repeat("░", width-n)
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
