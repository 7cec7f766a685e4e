package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/agerasev/playsim/internal/algebra"
	"github.com/agerasev/playsim/internal/phys"
	"github.com/agerasev/playsim/internal/scene"
	"github.com/agerasev/playsim/internal/sim"
)

const (
	canvasWidth     = 80
	canvasHeight    = 24
	historyCapacity = 600
	// Live stepping clamps the frame dt; above this RK4 goes visibly wrong.
	maxLiveDt = 0.04
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).Width(40)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// SceneBuilder recreates the scene for the reset key.
type SceneBuilder func() sim.Scene

// Model is the live terminal view: it steps a scene at the display rate and
// renders it onto a braille canvas next to a stats panel.
type Model struct {
	build     SceneBuilder
	scene     sim.Scene
	solver    phys.Solver
	sceneName string

	t       float64
	dt      float64
	running bool

	canvas        *Canvas
	trail         []struct{ x, y int }
	energyHistory []float64

	throttle float64
	steer    float64
	braking  bool

	lastTick time.Time
}

func NewModel(build SceneBuilder, solver phys.Solver, dt float64, sceneName string) Model {
	return Model{
		build:         build,
		scene:         build(),
		solver:        solver,
		sceneName:     sceneName,
		dt:            dt,
		running:       true,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		trail:         make([]struct{ x, y int }, 0, 200),
		energyHistory: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

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
		case "up", "k":
			m.throttle = 1
		case "down", "j":
			m.throttle = -1
		case "left", "h":
			m.steer = 1
		case "right", "l":
			m.steer = -1
		case "b":
			m.braking = !m.braking
		}
	case TickMsg:
		if m.running {
			m.step(time.Time(msg))
		}
		m.draw()
		return m, tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

// step advances the scene by the elapsed frame time, clamped.
func (m *Model) step(now time.Time) {
	dt := m.dt
	if !m.lastTick.IsZero() {
		dt = now.Sub(m.lastTick).Seconds()
	}
	m.lastTick = now
	if dt > maxLiveDt {
		dt = maxLiveDt
	}

	if d, ok := m.scene.(*scene.Drive); ok {
		v := d.Vehicle
		v.ResetControls()
		v.Accelerate(m.throttle)
		v.Steer(m.steer)
		if m.braking {
			v.Brake(1)
		}
	}
	// Controls decay so that a tap behaves like a tap.
	m.throttle *= 0.9
	m.steer *= 0.9

	m.solver.SolveStep(m.scene, dt)
	m.t += dt

	if e, ok := m.scene.(sim.Energetic); ok {
		m.energyHistory = append(m.energyHistory, e.Energy())
		if len(m.energyHistory) > historyCapacity {
			m.energyHistory = m.energyHistory[1:]
		}
	}
}

func (m *Model) reset() {
	m.scene = m.build()
	m.t = 0
	m.trail = m.trail[:0]
	m.energyHistory = m.energyHistory[:0]
	m.throttle, m.steer, m.braking = 0, 0, false
	m.lastTick = time.Time{}
}

func (m Model) View() string {
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.sceneName)) + "\n")
	if m.running {
		s.WriteString("RUNNING\n\n")
	} else {
		s.WriteString("PAUSED\n\n")
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory,
			asciigraph.Height(4), asciigraph.Width(28), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.t)) + "\n")
	if e, ok := m.scene.(sim.Energetic); ok {
		s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.2f", e.Energy())) + "\n")
	}
	if d, ok := m.scene.(*scene.Drive); ok {
		speed := d.Vehicle.Vel.Value().Length()
		s.WriteString(labelStyle.Render("Speed") + valueStyle.Render(fmt.Sprintf("%.2f", speed)) + "\n")
	}

	help := "\n─────────────────────\nSP:Pause R:Reset Q:Quit"
	if _, ok := m.scene.(*scene.Drive); ok {
		help += "\n↑↓:Throttle ←→:Steer B:Brake"
	}
	s.WriteString(helpStyle.Render(help))

	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}

func (m *Model) draw() {
	m.canvas.Clear()
	switch sc := m.scene.(type) {
	case *scene.Balls:
		m.drawBalls(sc)
	case *scene.Drive:
		m.drawDrive(sc)
	case *scene.FreeFall:
		m.drawFreeFall(sc)
	default:
		m.drawGeneric()
	}
}

// drawBalls maps the box onto the canvas and draws each ball as a circle
// with a radius spoke showing its rotation.
func (m *Model) drawBalls(w *scene.Balls) {
	cw, ch := m.canvas.DotWidth(), m.canvas.DotHeight()
	scaleX := float64(cw-2) / (2 * w.Size.X)
	scaleY := float64(ch-2) / (2 * w.Size.Y)

	toDot := func(p algebra.Vec2) (int, int) {
		return 1 + int((p.X+w.Size.X)*scaleX), 1 + int((p.Y+w.Size.Y)*scaleY)
	}

	m.canvas.DrawRect(0, 0, cw-1, ch-1)

	for _, b := range w.Items {
		cx, cy := toDot(b.Pos.Value())
		r := int(b.Radius * scaleX)
		m.canvas.DrawCircle(cx, cy, r)

		// Rotation spoke.
		tip := b.Pos.Value().Add(b.Rot.Value().Apply(algebra.Vec2{X: b.Radius}))
		tx, ty := toDot(tip)
		m.canvas.DrawLine(cx, cy, tx, ty)
	}
}

// drawDrive shows a side profile: terrain height along the vehicle's X axis
// and the body with its wheels.
func (m *Model) drawDrive(d *scene.Drive) {
	cw, ch := m.canvas.DotWidth(), m.canvas.DotHeight()
	v := d.Vehicle
	pos := v.Pos.Value()

	const viewHalf = 20.0 // world units visible left and right
	scaleX := float64(cw) / (2 * viewHalf)
	scaleY := scaleX / 2 // dots are taller than wide
	baseY := ch * 3 / 4

	toDot := func(x, z float64) (int, int) {
		return int((x - pos.X + viewHalf) * scaleX),
			baseY - int((z-d.Terrain.HeightAt(pos.XY()))*scaleY)
	}

	// Terrain profile through the vehicle's Y.
	prevX, prevY := 0, 0
	for i := 0; i <= cw; i += 2 {
		wx := pos.X - viewHalf + float64(i)/scaleX
		h := d.Terrain.HeightAt(algebra.Vec2{X: wx, Y: pos.Y})
		px, py := toDot(wx, h)
		if i > 0 {
			m.canvas.DrawLine(prevX, prevY, px, py)
		}
		prevX, prevY = px, py
	}

	// Body as a box around the center of mass.
	bx, by := toDot(pos.X, pos.Z)
	m.canvas.DrawRect(bx-int(2*scaleX), by-int(1*scaleY), bx+int(2*scaleX), by+int(1*scaleY))

	// Wheels, projected onto the side view.
	for _, w := range v.Wheels {
		c := pos.Add(v.Rot.Value().Apply(w.Mount))
		wx, wy := toDot(c.X, c.Z)
		m.canvas.DrawCircle(wx, wy, int(v.Config.Wheel.Radius*scaleX))
	}
}

func (m *Model) drawFreeFall(f *scene.FreeFall) {
	cw, ch := m.canvas.DotWidth(), m.canvas.DotHeight()
	p := f.Pos.Value()
	px := cw/2 + int(p.X*8)
	py := ch/4 + int(p.Y*8)

	m.trail = append(m.trail, struct{ x, y int }{px, py})
	if len(m.trail) > 200 {
		m.trail = m.trail[1:]
	}
	for _, pt := range m.trail {
		m.canvas.Set(pt.x, pt.y)
	}
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			m.canvas.Set(px+dx, py+dy)
		}
	}
}

// drawGeneric renders the sample as vertical bars, one per component.
func (m *Model) drawGeneric() {
	sample := m.scene.Sample()
	cw, ch := m.canvas.DotWidth(), m.canvas.DotHeight()
	cy := ch / 2
	barWidth, gap := 8, 4
	totalW := len(sample) * (barWidth + gap)
	startX := (cw - totalW) / 2
	for i, v := range sample {
		h := int(v * 10)
		bx := startX + i*(barWidth+gap)
		top, bot := cy-h, cy
		if h < 0 {
			top, bot = cy, cy-h
		}
		for y := top; y <= bot; y++ {
			for w := 0; w < barWidth; w++ {
				m.canvas.Set(bx+w, y)
			}
		}
	}
}
