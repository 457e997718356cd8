package presenter_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"codeberg.org/mutker/mysqlstatus/internal/model"
	"codeberg.org/mutker/mysqlstatus/internal/presenter"
	"codeberg.org/mutker/mysqlstatus/internal/store"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func update(t *testing.T, m presenter.TerminalModel, msg tea.Msg) (presenter.TerminalModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	tm, ok := next.(presenter.TerminalModel)
	require.True(t, ok)

	return tm, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)

	return ok
}

func newModel(st *store.Store, width, height int) presenter.TerminalModel {
	opts := presenter.TerminalOptions{
		Info:     model.ServerInfo{Hostname: "db1", Version: "8.0.36", BufferPoolSizeMB: 128},
		Location: time.UTC,
	}

	return presenter.NewTerminalModel(st, opts, width, height)
}

func TestTerminalModeKeys(t *testing.T) {
	st := store.New(model.ModeStatus)
	m := newModel(st, 80, 24)

	m, _ = update(t, m, key('p'))
	assert.Equal(t, model.ModeProcess, st.Mode())

	m, _ = update(t, m, key('g'))
	assert.Equal(t, model.ModeGlobal, st.Mode())

	_, _ = update(t, m, key('s'))
	assert.Equal(t, model.ModeStatus, st.Mode())
}

func TestTerminalHelpOverlay(t *testing.T) {
	st := store.New(model.ModeStatus)
	m := newModel(st, 80, 24)

	m, _ = update(t, m, key('?'))
	assert.Contains(t, m.View(), "Help:")

	// Any key dismisses the overlay without acting on it.
	m, cmd := update(t, m, key('q'))
	assert.False(t, isQuit(cmd))
	assert.False(t, st.Stopped())
	assert.NotContains(t, m.View(), "Help:")
}

func TestTerminalQuitStopsStore(t *testing.T) {
	for _, msg := range []tea.KeyMsg{key('q'), {Type: tea.KeyCtrlC}} {
		st := store.New(model.ModeStatus)
		m := newModel(st, 80, 24)

		_, cmd := update(t, m, msg)

		assert.True(t, isQuit(cmd), msg.String())
		assert.True(t, st.Stopped(), msg.String())
	}
}

func TestTerminalTickQuitsWhenStopped(t *testing.T) {
	st := store.New(model.ModeStatus)
	m := newModel(st, 80, 24)
	st.Stop()

	_, cmd := update(t, m, presenter.TickMsg(time.Now()))

	assert.True(t, isQuit(cmd))
}

func TestTerminalRendersStatusWithTruncation(t *testing.T) {
	st := store.New(model.ModeStatus)
	st.Publish(model.Snapshot{
		Mode:   model.ModeStatus,
		Status: &model.StatusSnapshot{Values: map[string]string{model.KeyUptime: "100"}},
	})
	// Two header rows leave five body rows.
	m := newModel(st, 80, 7)

	m, cmd := update(t, m, presenter.TickMsg(time.Now()))
	require.NotNil(t, cmd)
	assert.False(t, st.Dirty())

	lines := strings.Split(m.View(), "\n")
	require.Len(t, lines, 7)
	assert.Contains(t, lines[0], "db1")
	assert.Contains(t, lines[2], model.StatusKeywords[0])
	want := len(model.StatusKeywords) - 4
	assert.Contains(t, lines[6], fmt.Sprintf("[%d items were truncated.]", want))
}

func TestTerminalRendersByPublishedMode(t *testing.T) {
	st := store.New(model.ModeStatus)
	st.Publish(model.Snapshot{
		Mode: model.ModeProcess,
		Processes: model.ProcessList{
			{ID: "1", Host: "h1", DB: "d", Time: 9, State: "s", Info: "SELECT 1"},
		},
	})
	m := newModel(st, 120, 24)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 30, Height: 10})
	m, _ = update(t, m, presenter.TickMsg(time.Now()))

	view := m.View()
	assert.Contains(t, view, "ID")
	for _, line := range strings.Split(view, "\n")[3:] {
		assert.LessOrEqual(t, len([]rune(line)), 30)
	}
}

func TestTerminalWaitsForData(t *testing.T) {
	st := store.New(model.ModeStatus)
	m := newModel(st, 80, 24)

	assert.Contains(t, m.View(), "Waiting for data")
}

func processSnapshot(n int) model.Snapshot {
	list := make(model.ProcessList, n)
	for i := range list {
		list[i] = model.ProcessRecord{ID: fmt.Sprint(i + 1), Host: "h", Info: "SELECT 1"}
	}

	return model.Snapshot{Mode: model.ModeProcess, Processes: list}
}

func TestTerminalProcessOverflowReportsCount(t *testing.T) {
	tests := []struct {
		name   string
		height int
		want   []string
	}{
		// One body row: the count replaces the column header.
		{"single row", 3, []string{"[3 items were truncated.]"}},
		{"header and rows", 5, []string{"ID", "1", "[2 items were truncated.]"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.New(model.ModeProcess)
			st.Publish(processSnapshot(3))
			m := newModel(st, 80, tt.height)

			m, _ = update(t, m, presenter.TickMsg(time.Now()))

			lines := strings.Split(m.View(), "\n")
			require.Len(t, lines, tt.height)
			for i, want := range tt.want {
				assert.Contains(t, lines[2+i], want)
			}
			if tt.height == 3 {
				assert.NotContains(t, lines[2], "HOST")
			}
		})
	}
}

func TestTerminalHeaderClockBeforeFirstSnapshot(t *testing.T) {
	st := store.New(model.ModeStatus)
	// No Location: the model falls back to the local zone.
	m := presenter.NewTerminalModel(st, presenter.TerminalOptions{}, 80, 24)
	now := time.Date(2024, 3, 1, 12, 30, 0, 0, time.Local)
	m = presenter.SetTerminalClock(m, func() time.Time { return now })

	view := m.View()

	assert.Contains(t, view, "2024-03-01 12:30:00")
	assert.NotContains(t, view, "0001-01-01")
}
