package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/sirsim/internal/sir"
)

const (
	width  = 60
	height = 20

	minStride = 1
	maxStride = 64
)

type TickMsg time.Time

// Options configures a live replay.
type Options struct {
	Title    string
	Interval time.Duration
	Stride   int
	Theme    string
}

func DefaultOptions() Options {
	return Options{
		Title:    "SIR replay",
		Interval: 50 * time.Millisecond,
		Stride:   3,
		Theme:    ThemeClassic.Name,
	}
}

// Model replays a finished run on a Braille canvas. The series is never
// mutated; the model only moves a cursor over it.
type Model struct {
	series   *sir.Series
	params   sir.Params
	title    string
	interval time.Duration

	pos      int
	stride   int
	running  bool
	showHelp bool
	theme    int

	canvas *Canvas
	ymax   float64
}

func NewModel(series *sir.Series, params sir.Params, opts Options) Model {
	if opts.Stride < minStride {
		opts.Stride = minStride
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultOptions().Interval
	}
	theme := 0
	for i, t := range Themes {
		if t.Name == opts.Theme {
			theme = i
		}
	}

	ymax := 1.0
	for k := 0; k < series.Len(); k++ {
		for _, v := range []float64{series.S[k], series.I[k], series.R[k]} {
			if v > ymax {
				ymax = v
			}
		}
	}

	return Model{
		series:   series,
		params:   params,
		title:    opts.Title,
		interval: opts.Interval,
		stride:   opts.Stride,
		running:  true,
		theme:    theme,
		canvas:   NewCanvas(width, height),
		ymax:     ymax,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and advances playback.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.pos = 0
			m.running = true
		case "+", "=":
			m.stride = min(m.stride*2, maxStride)
		case "-", "_":
			m.stride = max(m.stride/2, minStride)
		case "left", "h":
			if !m.running {
				m.pos = max(m.pos-1, 0)
			}
		case "right", "l":
			if !m.running {
				m.pos = min(m.pos+1, m.last())
			}
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.pos = min(m.pos+m.stride, m.last())
			if m.pos == m.last() {
				m.running = false
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) last() int { return max(m.series.Len()-1, 0) }

// Done reports whether playback reached the final point.
func (m Model) Done() bool { return m.pos == m.last() }

func (m Model) Position() int { return m.pos }

func (m Model) Stride() int { return m.stride }

func (m Model) Theme() Theme { return Themes[m.theme] }

// draw plots S, I and R up to the cursor, one canvas layer each.
func (m *Model) draw() {
	m.canvas.Clear()
	n := m.series.Len()
	if n == 0 {
		return
	}
	cw, ch := m.canvas.Width*2, m.canvas.Height*4
	project := func(k int, v float64) (int, int) {
		x := 0
		if n > 1 {
			x = k * (cw - 1) / (n - 1)
		}
		y := ch - 1 - int(v/m.ymax*float64(ch-1))
		return x, y
	}
	for layer, ys := range [][]float64{m.series.S, m.series.I, m.series.R} {
		px, py := project(0, ys[0])
		for k := 1; k <= m.pos; k++ {
			x, y := project(k, ys[k])
			m.canvas.DrawLine(px, py, x, y, layer)
			px, py = x, y
		}
		if m.pos == 0 {
			m.canvas.Set(px, py, layer)
		}
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	if m.series.Len() == 0 {
		return "empty series\n"
	}
	m.draw()
	theme := m.Theme()
	canvasView := canvasStyle.Render(m.canvas.Render(theme.layerStyles()))

	x := m.series.At(m.pos)
	status := StatusRunning.Render("RUNNING")
	switch {
	case m.Done():
		status = StatusDone.Render("DONE")
	case !m.running:
		status = StatusPaused.Render("PAUSED")
	}

	peak, peakAt := 0.0, 0.0
	for k := 0; k <= m.pos; k++ {
		if m.series.I[k] > peak {
			peak, peakAt = m.series.I[k], m.series.T[k]
		}
	}

	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value) + "\n"
	}
	dot := func(c lipgloss.Color) string { return lipgloss.NewStyle().Foreground(c).Render("●") + " " }

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(fmt.Sprintf("%s  x%d\n\n", status, m.stride))
	s.WriteString(row("Time", fmt.Sprintf("%.1f", m.series.T[m.pos])))
	s.WriteString(dot(theme.Susceptible) + row("S", fmt.Sprintf("%.1f", x.S)))
	s.WriteString(dot(theme.Infected) + row("I", fmt.Sprintf("%.1f", x.I)))
	s.WriteString(dot(theme.Recovered) + row("R", fmt.Sprintf("%.1f", x.R)))
	s.WriteString(row("Beta", fmt.Sprintf("%g", m.params.Beta)))
	s.WriteString(row("Gamma", fmt.Sprintf("%g", m.params.Gamma)))
	if r0, ok := m.params.R0(); ok {
		s.WriteString(row("R0", fmt.Sprintf("%.2f", r0)))
	} else {
		s.WriteString(row("R0", "undefined"))
	}
	s.WriteString(row("Peak I", fmt.Sprintf("%.1f at t=%.1f", peak, peakAt)))
	s.WriteString("\n" + ProgressBar(float64(m.pos)/float64(max(m.last(), 1)), 30) + "\n")
	s.WriteString(SparklineChart(m.series.I[:m.pos+1], 30) + "\n")
	s.WriteString(helpStyle.Render("─────────────────────\nSP:Pause R:Restart Q:Quit\nT:Theme +/-:Speed ←→:Step ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume playback    ║
║  R        - Restart from t=0         ║
║  + / -    - Faster / slower          ║
║  ← / →    - Step while paused        ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// Live runs the replay in the alternate screen until the user quits.
func Live(series *sir.Series, params sir.Params, opts Options) error {
	p := tea.NewProgram(NewModel(series, params, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
