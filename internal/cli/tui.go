package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"math"
	"math/rand"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/graphweave/pkg/engine"
	"github.com/matzehuels/graphweave/pkg/model"
	"github.com/matzehuels/graphweave/pkg/pipeline"
)

// runWatch renders the simulation live in the terminal. The frame loop runs
// on its own goroutine; the TUI only consumes position snapshots.
func (c *CLI) runWatch(ctx context.Context, input string, width, height float64, maxTicks int, seed int64) error {
	g, err := model.ReadGraphFile(input)
	if err != nil {
		return err
	}
	if width == 0 {
		width = pipeline.DefaultWidth
	}
	if height == 0 {
		height = pipeline.DefaultHeight
	}
	if seed == 0 {
		seed = pipeline.DefaultSeed
	}

	rng := rand.New(rand.NewSource(seed))
	bodies := engine.Seed(g, width, height, nil, rng)
	st := engine.NewState(bodies)
	sim := engine.NewSimulator(g, engine.Config{Width: width, Height: height, MaxTicks: maxTicks}, nil)

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	frames := make(chan watchFrame, 1)
	loop := pipeline.NewLoop(sim, st, 0, func(s *engine.State) {
		f := watchFrame{tick: s.Tick, positions: s.Positions()}
		select {
		case frames <- f:
		default:
		}
	})
	go func() {
		_ = loop.Run(loopCtx)
		close(frames)
	}()

	m := watchModel{
		cancel:   cancel,
		frames:   frames,
		maxTicks: sim.MaxTicks(),
		title:    input,
	}
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := p.Run(); err != nil && !stderrors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

// watchFrame is one position snapshot handed from the frame loop to the TUI.
type watchFrame struct {
	tick      int
	positions map[string]engine.Vec
}

// watchModel is the bubbletea model for the live simulation view.
type watchModel struct {
	cancel   context.CancelFunc
	frames   chan watchFrame
	title    string
	maxTicks int

	frame      watchFrame
	termWidth  int
	termHeight int
}

func (m watchModel) Init() tea.Cmd {
	return m.nextFrame()
}

// nextFrame blocks on the frame channel until the loop publishes a snapshot.
func (m watchModel) nextFrame() tea.Cmd {
	return func() tea.Msg {
		return <-m.frames
	}
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancel()
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height

	case watchFrame:
		if msg.positions == nil {
			// Channel closed, the loop is gone.
			return m, tea.Quit
		}
		m.frame = msg
		return m, m.nextFrame()
	}
	return m, nil
}

func (m watchModel) View() string {
	if m.termWidth == 0 || m.termHeight < 6 {
		return "starting..."
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render("graphweave watch") + StyleDim.Render("  "+m.title) + "\n")

	tick := m.frame.tick
	if tick > m.maxTicks {
		tick = m.maxTicks
	}
	status := fmt.Sprintf("tick %d/%d", tick, m.maxTicks)
	if tick >= m.maxTicks {
		status = styleCached.Render("settled") + StyleDim.Render(fmt.Sprintf(" · %d ticks", m.maxTicks))
	} else {
		status = StyleDim.Render(status)
	}
	b.WriteString(status + "\n")

	b.WriteString(m.renderCanvas(m.termWidth, m.termHeight-4))
	b.WriteString(StyleDim.Render("q quit"))
	return b.String()
}

// renderCanvas projects node positions onto a character grid. Bounds track
// the live extent so the view follows the graph as it spreads out.
func (m watchModel) renderCanvas(cols, rows int) string {
	grid := make([][]rune, rows)
	for i := range grid {
		grid[i] = make([]rune, cols)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range m.frame.positions {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}

	spanX := maxX - minX
	spanY := maxY - minY
	if spanX <= 0 {
		spanX = 1
	}
	if spanY <= 0 {
		spanY = 1
	}

	for _, p := range m.frame.positions {
		col := int((p.X - minX) / spanX * float64(cols-1))
		row := int((p.Y - minY) / spanY * float64(rows-1))
		grid[row][col] = '●'
	}

	var b strings.Builder
	for _, line := range grid {
		b.WriteString(StyleHighlight.Render(string(line)))
		b.WriteByte('\n')
	}
	return b.String()
}
