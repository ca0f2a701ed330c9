package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/universe"
	"github.com/san-kum/gravsim/internal/viz"
)

const (
	background = "#0a0a0a"
	bodyFill   = "#00ccff"
	maxRadius  = 8.0
	minRadius  = 0.75
)

// palette cycles per body in trajectory plots.
var palette = []string{"#00ff88", "#ffcc00", "#ff4444", "#00ccff", "#ff00ff", "#ffffff"}

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	sw, sh := canvas.SubSize()
	width := float64(sw) * scale
	height := float64(sh) * scale

	var sb strings.Builder
	header(&sb, width, height)
	sb.WriteString("<g fill=\"#00ff00\">\n")

	dotRadius := scale * 0.4
	for y := 0; y < sh; y++ {
		for x := 0; x < sw; x++ {
			if canvas.IsSet(x, y) {
				fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
					float64(x)*scale+scale/2, float64(y)*scale+scale/2, dotRadius)
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// FrameToSVG draws every body of s as a circle whose radius grows with the
// cube root of its share of the heaviest mass.
func FrameToSVG(s universe.Snapshot, width, height int) string {
	b := boundsOf([]universe.Snapshot{s})

	var sb strings.Builder
	header(&sb, float64(width), float64(height))
	fmt.Fprintf(&sb, "<g fill=%q>\n", bodyFill)

	heaviest := 0.0
	for _, m := range s.Mass {
		heaviest = math.Max(heaviest, m)
	}
	for i := range s.Mass {
		x, y := b.project(s.X[i], s.Y[i], width, height)
		r := math.Max(minRadius, maxRadius*math.Cbrt(s.Mass[i]/heaviest))
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.2f\"/>\n", x, y, r)
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrajectoriesToSVG draws one path per body index across frames. A path
// ends at the first frame where its index no longer exists.
func TrajectoriesToSVG(frames []sim.Frame, width, height int) string {
	if len(frames) < 2 {
		return ""
	}

	snaps := make([]universe.Snapshot, len(frames))
	for i, f := range frames {
		snaps[i] = f.State
	}
	b := boundsOf(snaps)

	var sb strings.Builder
	header(&sb, float64(width), float64(height))

	for body := 0; body < frames[0].State.Len(); body++ {
		fmt.Fprintf(&sb, "<path fill=\"none\" stroke=%q stroke-width=\"1.5\" d=\"", palette[body%len(palette)])
		for i, f := range frames {
			if body >= f.State.Len() {
				break
			}
			x, y := b.project(f.State.X[body], f.State.Y[body], width, height)
			if i == 0 {
				fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func header(sb *strings.Builder, width, height float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill=%q/>
`, width, height, width, height, background)
}

type bounds struct {
	minX, maxX, minY, maxY float64
}

// boundsOf returns the box around every position with 10% padding. A
// degenerate axis gets a unit range.
func boundsOf(snaps []universe.Snapshot) bounds {
	b := bounds{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
	for _, s := range snaps {
		for i := range s.X {
			b.minX, b.maxX = math.Min(b.minX, s.X[i]), math.Max(b.maxX, s.X[i])
			b.minY, b.maxY = math.Min(b.minY, s.Y[i]), math.Max(b.maxY, s.Y[i])
		}
	}
	if math.IsInf(b.minX, 1) {
		return bounds{-1, 1, -1, 1}
	}

	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	b.minX -= rangeX * 0.1
	b.maxX += rangeX * 0.1
	b.minY -= rangeY * 0.1
	b.maxY += rangeY * 0.1
	return b
}

func (b bounds) project(x, y float64, width, height int) (float64, float64) {
	px := (x - b.minX) / (b.maxX - b.minX) * float64(width)
	py := float64(height) - (y-b.minY)/(b.maxY-b.minY)*float64(height)
	return px, py
}
