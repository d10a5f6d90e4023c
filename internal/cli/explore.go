package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	derrors "github.com/matzehuels/driftgrid/pkg/errors"
	dio "github.com/matzehuels/driftgrid/pkg/io"
	"github.com/matzehuels/driftgrid/pkg/render/sink"
	"github.com/matzehuels/driftgrid/pkg/session"
)

// Explore defaults.
const (
	defaultCellSize = 16.0                  // grid pixels per terminal column
	wheelStep       = 40.0                  // grid pixels per wheel notch or arrow key
	throwInterval   = 16 * time.Millisecond // inertial tick while a throw coasts
)

var statusStyle = lipgloss.NewStyle().Foreground(colorMuted)

// exploreCommand creates the interactive terminal explorer.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		cellSize float64
		logFile  string
		record   string
	)

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Pan the grid interactively in the terminal",
		Long: `Pan the grid interactively in the terminal.

Drag with the mouse and release to throw; the grid keeps coasting and slows
down with the configured inertia. The mouse wheel and arrow keys scroll.
Press r to return to the origin and q to quit.

The terminal window is the viewport: resizing it changes where cards fade.
Logs would corrupt the display, so they are discarded unless --log-file is
given.

With --record the input is saved as a script on exit; "driftgrid render"
replays it. Resetting starts the recording over.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cellSize <= 0 {
				return fmt.Errorf("cell size must be positive, got %v", cellSize)
			}
			return c.runExplore(cmd.Context(), cellSize, logFile, record)
		},
	}

	cmd.Flags().Float64Var(&cellSize, "cell-size", defaultCellSize, "grid pixels per terminal column")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file while exploring")
	cmd.Flags().StringVar(&record, "record", "", "save the input as a replayable script to this file")

	return cmd
}

func (c *CLI) runExplore(ctx context.Context, cellSize float64, logFile, record string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	var logOut io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	c.Logger.SetOutput(logOut)
	defer c.Logger.SetOutput(os.Stderr)

	opts := baseOptions(cfg)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	params := opts.SessionParams()
	params.Logger = c.Logger
	sess, err := session.New(params)
	if err != nil {
		return err
	}

	model := newExploreModel(sess, cellSize)
	if record != "" {
		if err := derrors.ValidateOutputPath(record); err != nil {
			return err
		}
		model.rec = &dio.Script{}
	}

	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("explore: %w", err)
	}
	m, ok := final.(exploreModel)
	if !ok {
		return nil
	}
	if m.err != nil {
		return m.err
	}
	if m.rec != nil {
		script := m.script()
		if err := dio.ExportScript(script, record); err != nil {
			return fmt.Errorf("save recording: %w", err)
		}
		printSuccess("Recorded %d events", len(script.Steps))
		printFile(record)
		printNextStep("Replay it", appName+" render "+record)
	}
	return nil
}

// =============================================================================
// exploreModel - bubbletea model driving a pan session
// =============================================================================

// throwTickMsg advances an inertial throw.
type throwTickMsg time.Time

// exploreModel maps terminal input onto a session. Each terminal cell covers
// cellSize grid pixels horizontally and twice that vertically, matching the
// half-block rendering of the terminal sink.
type exploreModel struct {
	sess     *session.Session
	cellSize float64
	cols     int
	rows     int // grid rows; one more line holds the status bar
	start    time.Time
	lastTick time.Time
	dragging bool
	ticking  bool
	rejected int
	rec      *dio.Script // nil unless recording
	err      error
}

func newExploreModel(sess *session.Session, cellSize float64) exploreModel {
	return exploreModel{sess: sess, cellSize: cellSize, start: time.Now()}
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols, m.rows = msg.Width, max(msg.Height-1, 1)
		w, h := m.viewportSize()
		if err := m.sess.Resize(w, h); err != nil {
			m.err = err
			return m, tea.Quit
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.apply(m.sess.Reset())
			if m.rec != nil {
				m.rec.Steps = m.rec.Steps[:0]
			}
		case "left", "h":
			m.scroll(-wheelStep, 0)
		case "right", "l":
			m.scroll(wheelStep, 0)
		case "up", "k":
			m.scroll(0, -wheelStep)
		case "down", "j":
			m.scroll(0, wheelStep)
		}

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case throwTickMsg:
		now := time.Time(msg)
		dt := now.Sub(m.lastTick)
		m.lastTick = now
		m.step(dio.Step{Kind: dio.StepTick, MS: millis(dt)})
		if m.sess.Throwing() {
			return m, throwTick()
		}
		m.ticking = false
	}

	if m.err != nil {
		return m, tea.Quit
	}
	return m, nil
}

func (m exploreModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	x, y := m.toGrid(msg.X, msg.Y)
	at := millis(time.Since(m.start))

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.scroll(0, -wheelStep)
	case msg.Button == tea.MouseButtonWheelDown:
		m.scroll(0, wheelStep)
	case msg.Button == tea.MouseButtonWheelLeft:
		m.scroll(-wheelStep, 0)
	case msg.Button == tea.MouseButtonWheelRight:
		m.scroll(wheelStep, 0)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.dragging = true
		m.step(dio.Step{Kind: dio.StepPress, X: x, Y: y, MS: at})
	case msg.Action == tea.MouseActionMotion && m.dragging:
		m.step(dio.Step{Kind: dio.StepMove, X: x, Y: y, MS: at})
	case msg.Action == tea.MouseActionRelease && m.dragging:
		m.dragging = false
		m.step(dio.Step{Kind: dio.StepRelease, MS: at})
		if m.sess.Throwing() && !m.ticking {
			m.ticking = true
			m.lastTick = time.Now()
			return m, throwTick()
		}
	}

	if m.err != nil {
		return m, tea.Quit
	}
	return m, nil
}

func (m exploreModel) View() string {
	if m.cols == 0 {
		return "loading..."
	}
	f, ok := m.sess.Frame()
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString(sink.RenderTerminal(f, m.cols, m.rows))
	b.WriteString("\n")

	status := fmt.Sprintf(" offset (%.0f, %.0f) · velocity (%.1f, %.1f) · frame %d",
		f.Offset.X, f.Offset.Y, f.Velocity.X, f.Velocity.Y, f.Seq)
	if m.rejected > 0 {
		status += fmt.Sprintf(" · %d rejected", m.rejected)
	}
	status += " · drag/wheel/arrows pan · r reset · q quit"
	b.WriteString(statusStyle.Render(truncate(status, m.cols)))
	return b.String()
}

// viewportSize is the grid viewport covered by the terminal.
func (m exploreModel) viewportSize() (w, h float64) {
	return float64(m.cols) * m.cellSize, float64(m.rows) * 2 * m.cellSize
}

// toGrid converts a terminal cell to grid pixels at the cell centre.
func (m exploreModel) toGrid(col, row int) (x, y float64) {
	return (float64(col) + 0.5) * m.cellSize, (float64(row) + 0.5) * 2 * m.cellSize
}

func (m *exploreModel) scroll(dx, dy float64) {
	m.step(dio.Step{Kind: dio.StepScroll, DX: dx, DY: dy})
}

// step applies st to the session and records it.
func (m *exploreModel) step(st dio.Step) {
	m.apply(m.sess.Apply(st))
	if m.rec != nil {
		m.rec.Steps = append(m.rec.Steps, st)
	}
}

// script returns the recording with the current viewport.
func (m exploreModel) script() *dio.Script {
	w, h := m.viewportSize()
	s := &dio.Script{Steps: m.rec.Steps}
	if w > 0 && h > 0 {
		s.Viewport = &dio.Viewport{Width: w, Height: h}
	}
	return s
}

// apply records the outcome of a session call. Rejected events are counted
// and leave the grid where it was; anything else ends the program.
func (m *exploreModel) apply(err error) {
	switch {
	case err == nil:
	case derrors.Is(err, derrors.ErrCodeInvalidEvent):
		m.rejected++
	default:
		m.err = err
	}
}

func throwTick() tea.Cmd {
	return tea.Tick(throwInterval, func(t time.Time) tea.Msg { return throwTickMsg(t) })
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
