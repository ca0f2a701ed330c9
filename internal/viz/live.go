package viz

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/gravity"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/universe"
	"github.com/sirupsen/logrus"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	trailCapacity   = 4000
	maxDiscRadius   = 3
)

type TickMsg time.Time

type point struct{ x, y float64 }

// Model steps a universe once per frame and draws it on a Braille canvas.
type Model struct {
	name          string
	u             *universe.Universe
	simulator     *sim.Simulator
	cfg           sim.Config
	initial       universe.Snapshot
	initialParams gravity.Params
	t             float64
	steps         int
	merged        int
	stepsPerFrame int
	canvas        *Canvas
	view          Viewport
	trail         [][]point
	trailPoints   int
	trails        bool
	running       bool
	energy0       float64
	energyHistory []float64
	recorder      *Recorder
	recording     bool
	gifPath       string
	showHelp      bool
	err           error
}

// NewModel wraps u, which the model steps in place.
func NewModel(name string, u *universe.Universe, solver sim.Solver, cfg sim.Config) Model {
	canvas := NewCanvas(width, height)
	view := NewViewport(canvas.SubSize())
	initial := u.Snapshot()
	view.Fit(initial)

	return Model{
		name:          name,
		u:             u,
		simulator:     sim.New(solver),
		cfg:           cfg,
		initial:       initial,
		initialParams: u.Params(),
		stepsPerFrame: 1,
		canvas:        canvas,
		view:          view,
		trail:         make([][]point, 0, historyCapacity),
		trails:        true,
		running:       true,
		energy0:       u.Energy(),
		energyHistory: make([]float64, 0, historyCapacity),
		recorder:      &Recorder{},
		gifPath:       "gravsim.gif",
	}
}

// WithStepsPerFrame sets how many ticks run between redraws.
func (m Model) WithStepsPerFrame(n int) Model {
	if n > 0 {
		m.stepsPerFrame = n
	}
	return m
}

// WithGIFPath sets where a finished recording is written.
func (m Model) WithGIFPath(path string) Model {
	if path != "" {
		m.gifPath = path
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "+", "=":
			m.view.Zoom(1.25)
		case "-", "_":
			m.view.Zoom(0.8)
		case "f":
			m.view.Fit(m.u.Snapshot())
		case "a":
			m.scaleAccuracy(2)
		case "z":
			m.scaleAccuracy(0.5)
		case "m":
			m.cfg.Merge = !m.cfg.Merge
			if m.cfg.Merge && !(m.cfg.MergeDensity > 0) {
				m.cfg.MergeDensity = 1
			}
		case "t":
			m.trails = !m.trails
			m.clearTrail()
		case "g":
			m.toggleRecording()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		m.draw()
		if m.recording {
			m.recorder.Capture(m.canvas)
		}
		return m, tick()
	}
	return m, nil
}

// step advances the universe by stepsPerFrame ticks. A failure pauses the
// model and is shown in the stats panel.
func (m *Model) step() {
	for i := 0; i < m.stepsPerFrame; i++ {
		n, err := m.simulator.Tick(m.u, m.cfg.Dt, m.cfg)
		if err == nil && !m.u.IsValid() {
			err = &dynamo.SimulationError{Step: m.steps, Time: m.t, Wrapped: dynamo.ErrInvalidState}
		}
		if err != nil {
			m.err = err
			m.running = false
			logrus.Warnf("live: %v", err)
			return
		}
		m.t += m.cfg.Dt
		m.steps++
		m.merged += n
	}

	m.energyHistory = append(m.energyHistory, m.u.Energy())
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}

	if m.trails {
		xs, ys := m.u.PositionsX(), m.u.PositionsY()
		positions := make([]point, len(xs))
		for i := range xs {
			positions[i] = point{xs[i], ys[i]}
		}
		m.trail = append(m.trail, positions)
		m.trailPoints += len(positions)
		for len(m.trail) > 1 && m.trailPoints > trailCapacity {
			m.trailPoints -= len(m.trail[0])
			m.trail = m.trail[1:]
		}
	}
}

func (m *Model) clearTrail() {
	m.trail = m.trail[:0]
	m.trailPoints = 0
}

func (m *Model) scaleAccuracy(factor float64) {
	acc := m.u.Params().Accuracy * factor
	if acc == 0 {
		acc = 0.25
	}
	if err := m.u.SetAccuracy(acc); err != nil {
		m.err = err
	}
}

func (m *Model) toggleRecording() {
	if !m.recording {
		m.recording = true
		return
	}
	m.recording = false
	if m.recorder.Len() == 0 {
		return
	}

	f, err := os.Create(m.gifPath)
	if err != nil {
		m.err = err
		return
	}
	defer f.Close()
	if err := m.recorder.Encode(f); err != nil {
		m.err = err
		return
	}
	logrus.Infof("live: recording written to %s", m.gifPath)
}

// reset restores the initial bodies and gravity parameters.
func (m *Model) reset() {
	u, err := universe.FromSnapshot(m.initial, m.initialParams)
	if err != nil {
		m.err = err
		return
	}
	u.SetParallel(m.u.Parallel())

	m.u = u
	m.t = 0
	m.steps = 0
	m.merged = 0
	m.err = nil
	m.clearTrail()
	m.energyHistory = m.energyHistory[:0]
	m.energy0 = u.Energy()
}

// draw renders trails and bodies as discs sized by the cube root of their
// share of the heaviest mass. A trail joins a body's successive positions
// with line segments; across a merge the indices shift, so those positions
// are drawn as dots.
func (m *Model) draw() {
	m.canvas.Clear()

	for k, positions := range m.trail {
		var prev []point
		if k > 0 && len(m.trail[k-1]) == len(positions) {
			prev = m.trail[k-1]
		}
		for i, p := range positions {
			x, y, ok := m.view.Project(p.x, p.y)
			if !ok {
				continue
			}
			if prev != nil {
				if px, py, ok := m.view.Project(prev[i].x, prev[i].y); ok {
					m.canvas.DrawLine(px, py, x, y)
					continue
				}
			}
			m.canvas.Set(x, y)
		}
	}

	masses := m.u.Masses()
	heaviest := 0.0
	for _, mass := range masses {
		heaviest = math.Max(heaviest, mass)
	}

	xs, ys := m.u.PositionsX(), m.u.PositionsY()
	for i := range xs {
		x, y, _ := m.view.Project(xs[i], ys[i])
		r := int(math.Round(maxDiscRadius * math.Cbrt(masses[i]/heaviest)))
		m.canvas.Disc(x, y, r)
	}
}

// Universe returns the universe currently being stepped.
func (m Model) Universe() *universe.Universe { return m.u }

func (m Model) Time() float64 { return m.t }

func (m Model) Running() bool { return m.running }

func (m Model) drift() float64 {
	if m.energy0 == 0 {
		return 0
	}
	return math.Abs(m.u.Energy()-m.energy0) / math.Abs(m.energy0)
}

// View renders the TUI interface.
func (m Model) View() string {
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")

	status := StatusRunning.Render("RUNNING")
	if !m.running {
		status = StatusPaused.Render("PAUSED")
	}
	if m.recording {
		status += " " + StatusRecording.Render("REC")
	}
	s.WriteString(status + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	p := m.u.Params()
	merge := "off"
	if m.cfg.Merge {
		merge = fmt.Sprintf("on (ρ=%g)", m.cfg.MergeDensity)
	}
	rows := []struct{ label, value string }{
		{"Time", fmt.Sprintf("%.2f", m.t)},
		{"Steps", fmt.Sprintf("%d", m.steps)},
		{"Bodies", fmt.Sprintf("%d", m.u.Len())},
		{"Merged", fmt.Sprintf("%d", m.merged)},
		{"Solver", m.simulator.Solver().Name()},
		{"Accuracy", fmt.Sprintf("%g", p.Accuracy)},
		{"Softening", fmt.Sprintf("%g", p.Softening)},
		{"Merge", merge},
		{"Zoom", fmt.Sprintf("%.3g", m.view.Scale)},
	}
	for _, r := range rows {
		s.WriteString(labelStyle.Render(r.label) + valueStyle.Render(r.value) + "\n")
	}
	drift := m.drift()
	s.WriteString(labelStyle.Render("Drift") + DriftBar(drift, 10) + valueStyle.Render(fmt.Sprintf(" %.1e", drift)) + "\n")

	if m.err != nil {
		s.WriteString("\n" + StatusRecording.Render(m.err.Error()) + "\n")
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit\n+/-:Zoom F:Fit ?:Help"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Reset simulation         ║
║  Q        - Quit                     ║
║  +/-      - Zoom in/out              ║
║  F        - Fit view to bodies       ║
║  A/Z      - Accuracy x2 / x0.5       ║
║  M        - Toggle merging           ║
║  T        - Toggle trails            ║
║  G        - Toggle GIF recording     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}
