// Package tui renders a live view of a running placement sweep.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bgoddard/lilypad/internal/sweep"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

type rowMsg sweep.Row

type doneMsg struct {
	rows []sweep.Row
	err  error
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type model struct {
	total int
	gap   float64

	done     int
	best     sweep.Row
	hasBest  bool
	history  []float64
	start    time.Time
	finished bool
	err      error
	rows     []sweep.Row

	cancel   context.CancelFunc
	stopping bool
}

func newModel(total int, gap float64, cancel context.CancelFunc) model {
	return model{
		total:   total,
		gap:     gap,
		history: make([]float64, 0, 256),
		start:   time.Now(),
		cancel:  cancel,
	}
}

func (m model) Init() tea.Cmd { return tick() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			if m.finished {
				return m, tea.Quit
			}
			m.stopping = true
			m.cancel()
		}
		return m, nil

	case rowMsg:
		m.done++
		row := sweep.Row(msg)
		if !m.hasBest || row.Vout > m.best.Vout {
			m.best = row
			m.hasBest = true
		}
		m.history = append(m.history, m.best.Vout)
		return m, nil

	case doneMsg:
		m.finished = true
		m.rows = msg.rows
		m.err = msg.err
		return m, tea.Quit

	case tickMsg:
		if m.finished {
			return m, nil
		}
		return m, tick()
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	status := green.Render("● sweeping")
	if m.stopping {
		status = yellow.Render("○ stopping")
	}
	b.WriteString(fmt.Sprintf("\n   %s  %s\n\n",
		cyan.Render("lilypad placement sweep"), status))

	progress := 0.0
	if m.total > 0 {
		progress = float64(m.done) / float64(m.total)
	}
	barWidth := 40
	filled := int(progress * float64(barWidth))
	bar := cyan.Render(strings.Repeat("━", filled)) +
		dimmer.Render(strings.Repeat("─", barWidth-filled))

	elapsed := time.Since(m.start).Seconds()
	rate := 0.0
	if elapsed > 0 {
		rate = float64(m.done) / elapsed
	}
	b.WriteString(fmt.Sprintf("   %s %s  %s\n\n",
		bar,
		dim.Render(fmt.Sprintf("%d/%d", m.done, m.total)),
		dim.Render(fmt.Sprintf("%.1fs  %.1f cells/s", elapsed, rate))))

	if m.hasBest {
		b.WriteString("   " + white.Render("best so far") + "\n")
		b.WriteString(fmt.Sprintf("   %s %s   %s %s   %s %s\n",
			dim.Render("pos"), magenta.Render(fmt.Sprintf("%.4f / %.4f", m.best.Pos2, m.best.Pos3)),
			dim.Render("radius"), magenta.Render(fmt.Sprintf("%.4f", m.best.Radius)),
			dim.Render("vout"), green.Render(fmt.Sprintf("%.5f", m.best.Vout))))
		b.WriteString(fmt.Sprintf("   %s %s   %s %s   %s %s\n",
			dim.Render("k21"), white.Render(fmt.Sprintf("%.4f", m.best.K21)),
			dim.Render("k32"), white.Render(fmt.Sprintf("%.4f", m.best.K32)),
			dim.Render("power"), white.Render(fmt.Sprintf("%.5f W", m.best.Power))))

		b.WriteString("\n   " + dim.Render("vout") + " " + cyan.Render(sparkline(m.history, 48)) + "\n")
	} else {
		b.WriteString("   " + dim.Render("waiting for first cell...") + "\n")
	}

	b.WriteString("\n" + dim.Render("   q cancel") + "\n")
	return b.String()
}

func sparkline(data []float64, width int) string {
	if len(data) == 0 {
		return ""
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	rang := maxVal - minVal
	if rang == 0 {
		rang = 1
	}
	step := len(data) / width
	if step < 1 {
		step = 1
	}
	var sb strings.Builder
	for i := 0; i < width && i*step < len(data); i++ {
		idx := int((data[i*step] - minVal) / rang * 7)
		if idx > 7 {
			idx = 7
		}
		if idx < 0 {
			idx = 0
		}
		sb.WriteRune(chars[idx])
	}
	return sb.String()
}

// RunSweep drives the sweep while rendering progress. The returned rows
// include everything completed before a cancel.
func RunSweep(ctx context.Context, s *sweep.Sweep) ([]sweep.Row, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newModel(s.Size(), s.Layout.Gap, cancel))

	go func() {
		rows, err := s.RunWithProgress(ctx, func(r sweep.Row) {
			p.Send(rowMsg(r))
		})
		p.Send(doneMsg{rows: rows, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, err
	}

	m := final.(model)
	return m.rows, m.err
}
