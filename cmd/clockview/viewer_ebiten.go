//go:build !headless

package main

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/go-masterclock/masterclock/masterclock"
)

const (
	windowWidth   = 900
	windowHeight  = 300
	columnWidth   = 6
	columnPeriod  = 16 * time.Millisecond // one column per redraw-ish interval
	maxColumns    = windowWidth / columnWidth
	barHeight     = windowHeight - 20
)

var chipPalette = []color.RGBA{
	{230, 90, 90, 255},
	{90, 170, 230, 255},
	{120, 200, 120, 255},
	{220, 190, 90, 255},
	{190, 120, 220, 255},
	{90, 220, 200, 255},
}

// clockViewGame is an ebiten.Game that renders a scrolling strip of
// columns, one per recent batch of ticks, colored by which chip(s)
// activated during that batch. Grounded on video_backend_ebiten.go's
// Update/Draw/Layout shape, generalized from a pixel framebuffer to a
// synthetic column history driven by the scheduler's tick events instead
// of a video chip's output.
type clockViewGame struct {
	sched  *masterclock.Scheduler
	events <-chan tickEvent

	mu       sync.Mutex
	columns  [][]bool // columns[i][chip] = chip activated during column i
	numChips int

	lastColumn time.Time
	face       font.Face
}

func newClockViewGame(sched *masterclock.Scheduler, events <-chan tickEvent, numChips int) *clockViewGame {
	return &clockViewGame{
		sched:      sched,
		events:     events,
		numChips:   numChips,
		lastColumn: time.Now(),
		face:       basicfont.Face7x13,
	}
}

func (g *clockViewGame) Update() error {
	g.mu.Lock()
	if len(g.columns) == 0 || time.Since(g.lastColumn) >= columnPeriod {
		g.columns = append(g.columns, make([]bool, g.numChips))
		g.lastColumn = time.Now()
		if len(g.columns) > maxColumns {
			g.columns = g.columns[len(g.columns)-maxColumns:]
		}
	}
	cur := g.columns[len(g.columns)-1]
	g.mu.Unlock()

drain:
	for {
		select {
		case ev := <-g.events:
			if ev.chip >= 0 && ev.chip < len(cur) {
				g.mu.Lock()
				cur[ev.chip] = true
				g.mu.Unlock()
			}
		default:
			break drain
		}
	}

	if g.sched.State() == "idle" {
		return ebiten.Termination
	}
	return nil
}

func (g *clockViewGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{20, 20, 24, 255})

	g.mu.Lock()
	columns := make([][]bool, len(g.columns))
	copy(columns, g.columns)
	g.mu.Unlock()

	img := image.NewRGBA(image.Rect(0, 0, windowWidth, windowHeight))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{20, 20, 24, 255}}, image.Point{}, draw.Src)

	for i, col := range columns {
		x := i * columnWidth
		for chip, on := range col {
			if !on {
				continue
			}
			c := chipPalette[chip%len(chipPalette)]
			rect := image.Rect(x, barHeight-barHeight*(chip+1)/(len(col)+1), x+columnWidth-1, barHeight)
			draw.Draw(img, rect, &image.Uniform{C: c}, image.Point{}, draw.Src)
		}
	}

	label := fmt.Sprintf("elapsed_ms=%s  %s", g.sched.FormattedElapsedMS(), g.sched.Snapshot())
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: g.face,
		Dot:  fixed.P(4, windowHeight-4),
	}
	d.DrawString(label)

	screen.DrawImage(ebiten.NewImageFromImage(img), nil)
}

func (g *clockViewGame) Layout(_, _ int) (int, int) {
	return windowWidth, windowHeight
}

// runViewer opens a window and renders the scrolling schedule until it is
// closed or the scheduler halts on its own. duration is unused here; the
// windowed viewer runs until the user closes it (mirrors
// video_backend_ebiten.go, which has no self-imposed time limit either).
func runViewer(sched *masterclock.Scheduler, events <-chan tickEvent, numChips int, _ time.Duration) error {
	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle("clockview")
	return ebiten.RunGame(newClockViewGame(sched, events, numChips))
}
