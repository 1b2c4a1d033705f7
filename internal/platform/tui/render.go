package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/lunar-lander/internal/core"
	"github.com/vovakirdan/lunar-lander/internal/lander"
	"github.com/vovakirdan/lunar-lander/internal/persist"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:      lipgloss.NewStyle(),
	core.ColorRed:          lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:        lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:       lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorCyan:         lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:        lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightRed:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBrightGreen:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBrightWhite:  lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorOrange:       lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:         lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorDimGray:      lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	core.ColorGold:         lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
	core.ColorSilver:       lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	core.ColorBronze:       lipgloss.NewStyle().Foreground(lipgloss.Color("136")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y, h := 0, s.Height(); y < h; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		// Group consecutive cells with the same color for efficiency
		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			startColor := cell.Color

			// Collect consecutive cells with same color
			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			// Apply style to the run
			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// hudRows is the number of rows above the playfield.
const hudRows = 2

// Glyphs
const (
	groundSurface = '▓'
	groundFill    = '░'
	padChar       = '='
	legLeft       = '/'
	legRight      = '\\'
)

// noseGlyphs are indexed by the angle in eighths of a turn, clockwise from up.
var noseGlyphs = [8]rune{'▲', '◥', '▶', '◢', '▼', '◣', '◀', '◤'}

// viewport maps world coordinates (y up) to screen cells (y down).
type viewport struct {
	cols, top, rows int
	w, h            float64
}

func newViewport(snap lander.Snapshot, dst *core.Screen) viewport {
	return viewport{
		cols: dst.Width(),
		top:  hudRows,
		rows: dst.Height() - hudRows,
		w:    snap.WorldWidth,
		h:    snap.WorldHeight,
	}
}

func (v viewport) col(x float64) int {
	if v.cols <= 1 || v.w <= 0 {
		return 0
	}
	return int(math.Round(x / v.w * float64(v.cols-1)))
}

func (v viewport) row(y float64) int {
	if v.rows <= 1 || v.h <= 0 {
		return v.top
	}
	return v.top + int(math.Round((v.h-y)/v.h*float64(v.rows-1)))
}

// worldX returns the world x at the center of a column.
func (v viewport) worldX(col int) float64 {
	if v.cols <= 1 {
		return 0
	}
	return float64(col) / float64(v.cols-1) * v.w
}

// RenderSnapshot draws the world and the flight HUD of snap into dst.
func RenderSnapshot(snap lander.Snapshot, dst *core.Screen) {
	dst.Clear()
	if dst.Height() <= hudRows || dst.Width() == 0 {
		return
	}

	v := newViewport(snap, dst)
	renderTerrain(snap, v, dst)
	renderLander(snap, v, dst)
	renderHUD(snap, dst)
}

// renderTerrain fills the ground below the surface line and marks the pad.
func renderTerrain(snap lander.Snapshot, v viewport, dst *core.Screen) {
	if len(snap.Terrain.Points) < 2 {
		return
	}
	x0, x1, _ := snap.Terrain.PadBounds()
	bottom := dst.Height() - 1

	for c := 0; c < v.cols; c++ {
		x := v.worldX(c)
		surface := core.Clamp(v.row(snap.Terrain.HeightAt(x)), v.top, bottom)

		if x >= x0 && x <= x1 {
			dst.SetColored(c, surface, padChar, core.ColorBrightYellow)
		} else {
			dst.SetColored(c, surface, groundSurface, core.ColorGray)
		}
		for y := surface + 1; y <= bottom; y++ {
			dst.SetColored(c, y, groundFill, core.ColorDimGray)
		}
	}
}

// renderLander draws the craft, its legs when roughly upright, the exhaust
// flame while thrusting, and debris after a crash.
func renderLander(snap lander.Snapshot, v viewport, dst *core.Screen) {
	s := snap.State
	cx, cy := v.col(s.Pos.X), v.row(s.Pos.Y)

	if snap.Outcome.Status == lander.StatusCrashed {
		renderDebris(dst, cx, cy, snap.Tick)
		return
	}

	octant := int(math.Round(s.Angle/45)) % 8
	body := core.ColorBrightWhite
	if snap.Outcome.Status == lander.StatusLanded {
		body = core.ColorBrightGreen
	}
	dst.SetColored(cx, cy, noseGlyphs[octant], body)
	if octant == 0 {
		dst.SetColored(cx-1, cy+1, legLeft, core.ColorWhite)
		dst.SetColored(cx+1, cy+1, legRight, core.ColorWhite)
	}

	if snap.Thrust() {
		rad := s.Angle * math.Pi / 180
		// The flame leaves opposite the nose; screen rows grow downward.
		fx := cx - int(math.Round(math.Sin(rad)))
		fy := cy + int(math.Round(math.Cos(rad)))
		flame := '*'
		if snap.Tick%2 == 1 {
			flame = '+'
		}
		dst.SetColored(fx, fy, flame, core.ColorOrange)
	}
}

func renderDebris(dst *core.Screen, cx, cy int, tick uint64) {
	shapes := [2][3]string{
		{`\|/`, `-*-`, `/|\`},
		{`. .`, ` # `, `' '`},
	}
	shape := shapes[(tick/8)%2]
	for dy, line := range shape {
		for dx, r := range line {
			if r == ' ' {
				continue
			}
			c := core.ColorOrange
			if dx == 1 && dy == 1 {
				c = core.ColorBrightRed
			}
			dst.SetColored(cx-1+dx, cy-1+dy, r, c)
		}
	}
}

// renderHUD draws the instrument line and the separator below it.
// Readings are colored by how close they are to the landing limits.
func renderHUD(snap lander.Snapshot, dst *core.Screen) {
	th := snap.Thresholds
	vx, vy := snap.State.Vel.X, snap.State.Vel.Y
	tilt := lander.Tilt(snap.State.Angle)
	fuel := snap.FuelFraction()

	x := 1
	put := func(label, value string, c core.Color) {
		dst.DrawTextColored(x, 0, label, core.ColorGray)
		x += len([]rune(label))
		dst.DrawTextColored(x, 0, value, c)
		x += len([]rune(value)) + 2
	}

	put("FUEL ", fuelGauge(fuel, 10), core.Traffic(1-fuel, 0.5, 0.8))
	put("ALT ", fmt.Sprintf("%5.0f", math.Max(0, snap.Altitude())), core.ColorWhite)
	put("VX ", fmt.Sprintf("%+6.1f", vx), core.Traffic(math.Abs(vx), 0.75*th.SafeHorizontalSpeed, th.SafeHorizontalSpeed))
	put("VY ", fmt.Sprintf("%+6.1f", vy), core.Traffic(math.Max(0, -vy), 0.75*th.SafeVerticalSpeed, th.SafeVerticalSpeed))
	put("ANG ", fmt.Sprintf("%3.0f°", tilt), core.Traffic(tilt, 0.75*th.SafeAngle, th.SafeAngle))
	put("T ", missionTime(snap.Elapsed), core.ColorCyan)

	dst.DrawHLine(0, 1, dst.Width(), '─', core.ColorDimGray)
}

// fuelGauge returns a bar of width cells followed by a percentage.
func fuelGauge(fraction float64, width int) string {
	fraction = core.ClampF(fraction, 0, 1)
	filled := int(math.Round(fraction * float64(width)))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled) +
		fmt.Sprintf(" %3.0f%%", fraction*100)
}

// missionTime formats seconds as mm:ss.t.
func missionTime(sec float64) string {
	if sec < 0 || math.IsNaN(sec) {
		sec = 0
	}
	tenths := int(sec * 10)
	return fmt.Sprintf("%02d:%02d.%d", tenths/600, (tenths/10)%60, tenths%10)
}

// Frame is everything drawn for one tick: the snapshot plus the pilot's
// context from the host.
type Frame struct {
	Snapshot lander.Snapshot
	Pilot    string
	Scores   []persist.ScoreEntry // Best first
	Rank     int                  // Table position of this landing, 1-based; 0 if none
	Message  string               // Transient status line
	Help     string               // Result box help line, defaults to the game keys
}

// hallOfFameRows is how many entries the result overlay lists.
const hallOfFameRows = 5

// RenderFrame draws f into dst.
func RenderFrame(f Frame, dst *core.Screen) {
	RenderSnapshot(f.Snapshot, dst)
	if dst.Height() <= hudRows {
		return
	}

	pilot := "PILOT " + f.Pilot
	if len(f.Scores) > 0 {
		pilot += fmt.Sprintf("  BEST %d", f.Scores[0].Score)
	}
	dst.DrawTextRight(dst.Width()-2, 1, " "+pilot+" ", core.ColorGray)

	if f.Message != "" {
		dst.DrawTextColored(1, dst.Height()-1, f.Message, core.ColorBrightYellow)
	}

	if f.Snapshot.Outcome.Terminal() {
		renderResult(f, dst)
	}
}

// renderResult draws the centered result box.
func renderResult(f Frame, dst *core.Screen) {
	out := f.Snapshot.Outcome
	var lines []overlayLine

	if out.Status == lander.StatusLanded {
		b := out.Breakdown
		lines = append(lines,
			overlayLine{"THE EAGLE HAS LANDED", core.ColorBrightGreen},
			overlayLine{},
			overlayLine{fmt.Sprintf("Base      %5d", b.Base), core.ColorWhite},
			overlayLine{fmt.Sprintf("Softness  %5d", b.Speed), core.ColorWhite},
			overlayLine{fmt.Sprintf("Precision %5d", b.Position), core.ColorWhite},
			overlayLine{fmt.Sprintf("Fuel      %5d", b.Fuel), core.ColorWhite},
			overlayLine{fmt.Sprintf("Time      %5d", b.Time), core.ColorWhite},
			overlayLine{fmt.Sprintf("SCORE     %5d", out.Score), core.ColorBrightYellow},
		)
		if f.Rank > 0 {
			lines = append(lines, overlayLine{fmt.Sprintf("New high score, rank #%d", f.Rank), core.ColorGold})
		}
	} else {
		lines = append(lines,
			overlayLine{"CRASHED", core.ColorBrightRed},
			overlayLine{crashText(out.Reason), core.ColorWhite},
		)
	}

	if len(f.Scores) > 0 {
		lines = append(lines, overlayLine{}, overlayLine{"HALL OF FAME", core.ColorCyan})
		for i, e := range f.Scores {
			if i >= hallOfFameRows {
				break
			}
			lines = append(lines, overlayLine{
				fmt.Sprintf("%d. %-15s %5d", i+1, e.Name, e.Score),
				rankColor(i),
			})
		}
	}
	helpLine := f.Help
	if helpLine == "" {
		helpLine = "R new attempt   N pilot name   Q quit"
	}
	lines = append(lines, overlayLine{}, overlayLine{helpLine, core.ColorGray})

	renderOverlay(dst, lines)
}

type overlayLine struct {
	text  string
	color core.Color
}

// renderOverlay draws lines centered in a box, clipped to the screen.
func renderOverlay(dst *core.Screen, lines []overlayLine) {
	w, h := dst.Width(), dst.Height()

	maxLen := 0
	for _, l := range lines {
		maxLen = core.Max(maxLen, len([]rune(l.text)))
	}
	boxW := core.Min(maxLen+4, w)
	boxH := core.Min(len(lines)+2, h)
	box := core.NewRect((w-boxW)/2, (h-boxH)/2, boxW, boxH)

	dst.DrawRect(box, ' ')
	dst.DrawBox(box, core.ColorWhite)

	for i, l := range lines {
		y := box.Y + 1 + i
		if y >= box.Bottom()-1 {
			break
		}
		x := box.X + (box.W-len([]rune(l.text)))/2
		dst.DrawTextColored(x, y, l.text, l.color)
	}
}

func crashText(r lander.CrashReason) string {
	switch r {
	case lander.ReasonOffPad:
		return "You missed the landing pad"
	case lander.ReasonTooFast:
		return "Touchdown was too fast"
	case lander.ReasonTooTilted:
		return "The lander was not upright"
	}
	return "The lander was destroyed"
}

func rankColor(i int) core.Color {
	switch i {
	case 0:
		return core.ColorGold
	case 1:
		return core.ColorSilver
	case 2:
		return core.ColorBronze
	}
	return core.ColorWhite
}
