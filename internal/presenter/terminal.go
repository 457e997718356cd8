package presenter

import (
	"context"
	"io"
	"strings"
	"time"

	"codeberg.org/mutker/mysqlstatus/internal/errors"
	"codeberg.org/mutker/mysqlstatus/internal/logger"
	"codeberg.org/mutker/mysqlstatus/internal/model"
	"codeberg.org/mutker/mysqlstatus/internal/store"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const helpText = `Help:
   s : switch to status mode
   p : switch to process mode
   g : switch to server info mode
   h : show this help message
   ? : alias of help
   q : quit
   [Press any key to continue]`

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	columnStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

type TerminalOptions struct {
	Info     model.ServerInfo
	Location *time.Location
	// Input and Output default to the process terminal.
	Input  io.Reader
	Output io.Writer
}

// Terminal is the interactive full-screen presenter.
type Terminal struct {
	store *store.Store
	opts  TerminalOptions
}

func NewTerminal(st *store.Store, opts TerminalOptions) *Terminal {
	return &Terminal{store: st, opts: opts}
}

func (t *Terminal) Run(ctx context.Context) error {
	defer t.store.Stop()

	logger.Debug().Msg("Starting interactive presenter")

	progOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if t.opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(t.opts.Input))
	}
	if t.opts.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(t.opts.Output))
	}

	p := tea.NewProgram(newTerminalModel(t.store, t.opts), progOpts...)
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil && errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return errors.New().Wrap(errors.ErrPresenter, err)
	}

	return nil
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type terminalModel struct {
	store    *store.Store
	info     model.ServerInfo
	location *time.Location
	now      func() time.Time

	width  int
	height int
	help   bool

	snap    model.Snapshot
	hasSnap bool
	shownAt time.Time
}

func newTerminalModel(st *store.Store, opts TerminalOptions) terminalModel {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	return terminalModel{
		store:    st,
		info:     opts.Info,
		location: loc,
		now:      time.Now,
		width:    80,
		height:   24,
	}
}

func (m terminalModel) Init() tea.Cmd {
	return tick()
}

func (m terminalModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		if m.store.Stopped() {
			return m, tea.Quit
		}
		if snap, ok := m.store.Take(); ok {
			m.snap = snap
			m.hasSnap = true
			m.shownAt = m.now()
		}
		return m, tick()
	}

	return m, nil
}

func (m terminalModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.help {
		m.help = false
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.store.Stop()
		return m, tea.Quit
	case "s":
		m.store.SetMode(model.ModeStatus)
	case "p":
		m.store.SetMode(model.ModeProcess)
	case "g":
		m.store.SetMode(model.ModeGlobal)
	case "h", "?":
		m.help = true
	}

	return m, nil
}

func (m terminalModel) View() string {
	if m.help {
		return helpText
	}

	shownAt := m.shownAt
	if !m.hasSnap {
		shownAt = m.now()
	}
	header := HeaderLines(m.info, shownAt.In(m.location))
	lines := make([]string, 0, m.height)
	lines = append(lines, headerStyle.Render(Clip(header[0], m.width)), Clip(header[1], m.width))

	bodyRows := m.height - len(header)
	if !m.hasSnap {
		lines = append(lines, Fit([]string{"Waiting for data..."}, bodyRows)...)
		return strings.Join(lines, "\n")
	}

	switch m.snap.Mode {
	case model.ModeProcess:
		rows := ProcessLines(m.snap.Processes, m.width)
		switch {
		case bodyRows <= 0:
		case bodyRows == 1 && len(rows) > 0:
			// No room for the column header and a row: report the rows.
			lines = append(lines, styleTruncation(Fit(rows, 1))...)
		default:
			lines = append(lines, columnStyle.Render(Clip(ProcessHeader(), m.width)))
			lines = append(lines, styleTruncation(Fit(rows, bodyRows-1))...)
		}
	case model.ModeStatus:
		lines = append(lines, styleTruncation(Fit(clipAll(StatusLines(m.snap.Status), m.width), bodyRows))...)
	default:
		lines = append(lines, styleTruncation(Fit(clipAll(GlobalLines(m.snap.Global), m.width), bodyRows))...)
	}

	return strings.Join(lines, "\n")
}

func clipAll(lines []string, width int) []string {
	for i := range lines {
		lines[i] = Clip(lines[i], width)
	}

	return lines
}

// styleTruncation highlights the truncation notice that Fit may append.
func styleTruncation(lines []string) []string {
	if n := len(lines); n > 0 && strings.HasPrefix(lines[n-1], "[") && strings.HasSuffix(lines[n-1], "truncated.]") {
		lines[n-1] = noticeStyle.Render(lines[n-1])
	}

	return lines
}
