package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/cory-johannsen/wheel/internal/game/command"
	"github.com/cory-johannsen/wheel/internal/game/spin"
)

// Segment colours alternate amber and slate.
var palette = []tcell.Color{
	tcell.NewHexColor(0xF59E0B),
	tcell.NewHexColor(0x1E293B),
	tcell.NewHexColor(0xD97706),
	tcell.NewHexColor(0x334155),
}

var (
	styleBase    = tcell.StyleDefault
	styleTitle   = tcell.StyleDefault.Foreground(tcell.NewHexColor(0xF59E0B)).Bold(true)
	styleBanner  = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.NewHexColor(0xF59E0B)).Bold(true)
	styleDim     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleBorder  = tcell.StyleDefault.Foreground(tcell.NewHexColor(0xF59E0B))
	styleWarn    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleEntry   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	stylePointer = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
)

const (
	wheelTop       = 2
	wheelHeight    = 3
	visibleSegs    = 3.0
	maxStripWidth  = 72
	entriesTop     = 10
	dialogMinWidth = 44
)

// span is a horizontal run of cells on one row.
type span struct {
	x0, x1, y int
}

func (sp span) contains(x, y int) bool {
	return y == sp.y && x >= sp.x0 && x < sp.x1
}

// Draw renders the whole screen.
func (s *Shell) Draw() {
	s.screen.Clear()
	w, h := s.screen.Size()

	s.drawTitle(w)
	s.drawWheel(w)
	s.drawBanner(w)
	s.drawEntries(h)

	switch s.mode {
	case ModeHelp:
		s.drawDialog(w, h, "How to play", s.helpLines())
	case ModeAdmin, ModePassword:
		s.drawDialog(w, h, "Admin Access", s.adminLines())
	case ModeConfirmReset:
		s.drawDialog(w, h, "Reset", []string{
			"Reset to default entries?",
			"This will remove all your custom entries.",
			"",
			"[y] Yes    [n] No",
		})
	}

	s.drawStatus(w, h)
	s.drawPrompt(w, h)
	s.screen.Show()
}

func (s *Shell) drawTitle(w int) {
	text := "★ " + s.title + " ★"
	width := runewidth.StringWidth(text)
	x := (w - width) / 2
	if x < 0 {
		x = 0
	}
	drawText(s.screen, x, 0, w, styleTitle, text)
	s.titleSpan = span{x0: x, x1: x + width, y: 0}
}

// drawWheel renders the rim of the wheel as a horizontal strip centred on
// the pointer, showing about three segments.
func (s *Shell) drawWheel(w int) {
	entries := s.app.Entries()
	n := len(entries)
	if n == 0 {
		return
	}
	stripWidth := w - 4
	if stripWidth > maxStripWidth {
		stripWidth = maxStripWidth
	}
	if stripWidth < 8 {
		return
	}
	x0 := (w - stripWidth) / 2
	cx := x0 + stripWidth/2
	angle := s.app.Angle()
	degPerCol := spin.SegmentWidth(n) * visibleSegs / float64(stripWidth)
	if n < int(visibleSegs) {
		degPerCol = 360.0 / float64(stripWidth)
	}

	s.screen.SetContent(cx, wheelTop-1, '▼', nil, stylePointer)

	segAt := func(x int) int {
		return spin.SegmentAt(angle+float64(x-cx)*degPerCol, n)
	}
	for x := x0; x < x0+stripWidth; x++ {
		seg := segAt(x)
		st := styleEntry.Background(palette[seg%len(palette)])
		for dy := 0; dy < wheelHeight; dy++ {
			s.screen.SetContent(x, wheelTop+dy, ' ', nil, st)
		}
	}

	// Label every visible run of one segment in the middle row.
	mid := wheelTop + wheelHeight/2
	for start := x0; start < x0+stripWidth; {
		seg := segAt(start)
		end := start
		for end < x0+stripWidth && segAt(end) == seg {
			end++
		}
		label := truncate(entries[seg], end-start-2)
		lx := start + (end-start-runewidth.StringWidth(label))/2
		drawText(s.screen, lx, mid, end, styleEntry.Background(palette[seg%len(palette)]).Bold(true), label)
		start = end
	}

	for x := x0; x < x0+stripWidth; x++ {
		s.screen.SetContent(x, wheelTop+wheelHeight, '▔', nil, styleBorder)
	}
	if !s.app.Spinning() {
		under := entries[segAt(cx)]
		drawCentered(s.screen, w, wheelTop+wheelHeight+1, styleDim, truncate(under, w-2))
	}
}

func (s *Shell) drawBanner(w int) {
	y := wheelTop + wheelHeight + 3
	switch {
	case s.app.Spinning():
		drawCentered(s.screen, w, y, styleTitle, "Spinning...")
	default:
		if o, ok := s.app.Last(); ok {
			drawCentered(s.screen, w, y, styleBanner, " ★ Winner: "+truncate(o.Label, w-16)+" ★ ")
		} else {
			drawCentered(s.screen, w, y, styleDim, "Press Enter to spin")
		}
	}
}

func (s *Shell) drawEntries(h int) {
	drawText(s.screen, 2, entriesTop, 40, styleTitle, "Wheel Entries")
	rows := h - entriesTop - 4
	for i, e := range s.app.Entries() {
		if i >= rows {
			drawText(s.screen, 4, entriesTop+1+i, 40, styleDim, "...")
			return
		}
		drawText(s.screen, 4, entriesTop+1+i, 60, styleEntry, fmt.Sprintf("%2d. %s", i+1, e))
	}
}

func (s *Shell) helpLines() []string {
	reg := s.dispatcher.Registry()
	lines := []string{"Press Enter on an empty line to spin.", ""}
	lines = append(lines, reg.HelpLines(command.CategoryWheel)...)
	lines = append(lines, reg.HelpLines(command.CategoryEntries)...)
	lines = append(lines, reg.HelpLines(command.CategorySystem)...)
	return append(lines, "", "Esc closes this window.")
}

func (s *Shell) adminLines() []string {
	reg := s.dispatcher.Registry()
	var lines []string
	if !s.app.Authenticated() {
		if s.mode == ModePassword {
			lines = append(lines, "Admin Password: "+strings.Repeat("*", len([]rune(s.app.PasswordField()))))
		} else {
			lines = append(lines, "Type login to enter the admin password.")
		}
		return append(lines, "", "Esc closes this window.")
	}

	preset := "Random (no preset)"
	if p := s.app.Preset(); p != nil {
		preset = fmt.Sprintf("%d. %s", *p+1, s.app.Entries()[*p])
	}
	lines = append(lines,
		"Preset Winner: "+preset,
		fmt.Sprintf("Spin Duration: %gs", s.app.Duration()),
		"",
	)
	lines = append(lines, reg.HelpLines(command.CategoryAdmin)...)
	return append(lines, "", "Esc closes this window.")
}

func (s *Shell) drawDialog(w, h int, title string, lines []string) {
	width := dialogMinWidth
	for _, l := range lines {
		if lw := runewidth.StringWidth(l) + 4; lw > width {
			width = lw
		}
	}
	if width > w-2 {
		width = w - 2
	}
	height := len(lines) + 4
	x0 := (w - width) / 2
	y0 := (h - height) / 2
	if y0 < 1 {
		y0 = 1
	}

	for y := y0; y < y0+height; y++ {
		for x := x0; x < x0+width; x++ {
			r := ' '
			switch {
			case y == y0 || y == y0+height-1:
				r = '─'
			case x == x0 || x == x0+width-1:
				r = '│'
			}
			s.screen.SetContent(x, y, r, nil, styleBorder)
		}
	}
	s.screen.SetContent(x0, y0, '┌', nil, styleBorder)
	s.screen.SetContent(x0+width-1, y0, '┐', nil, styleBorder)
	s.screen.SetContent(x0, y0+height-1, '└', nil, styleBorder)
	s.screen.SetContent(x0+width-1, y0+height-1, '┘', nil, styleBorder)

	drawText(s.screen, x0+2, y0, x0+width-2, styleTitle, " "+title+" ")
	for i, l := range lines {
		drawText(s.screen, x0+2, y0+2+i, x0+width-2, styleBase, l)
	}
}

func (s *Shell) drawStatus(w, h int) {
	st := styleBase
	switch s.level {
	case command.LevelWarn:
		st = styleWarn
	case command.LevelError:
		st = styleError
	}
	drawText(s.screen, 1, h-2, w, st, s.status)
}

func (s *Shell) drawPrompt(w, h int) {
	prompt := "> "
	text := string(s.input)
	switch s.mode {
	case ModePassword:
		prompt = "password: "
		text = strings.Repeat("*", len(s.input))
	case ModeAdmin:
		prompt = "admin> "
	case ModeConfirmReset:
		prompt = "reset? (y/n) "
	}
	line := prompt + text
	drawText(s.screen, 0, h-1, w, styleBase, line)
	s.screen.ShowCursor(runewidth.StringWidth(line), h-1)
}

// drawText writes text from x on row y, stopping before column maxX.
func drawText(sc tcell.Screen, x, y, maxX int, st tcell.Style, text string) {
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if x+rw > maxX {
			return
		}
		sc.SetContent(x, y, r, nil, st)
		x += rw
	}
}

func drawCentered(sc tcell.Screen, w, y int, st tcell.Style, text string) {
	x := (w - runewidth.StringWidth(text)) / 2
	if x < 0 {
		x = 0
	}
	drawText(sc, x, y, w, st, text)
}

// truncate shortens text to at most width cells, marking the cut with an ellipsis.
func truncate(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(text) <= width {
		return text
	}
	return runewidth.Truncate(text, width, "…")
}
