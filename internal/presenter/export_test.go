package presenter

import (
	"time"

	"codeberg.org/mutker/mysqlstatus/internal/store"
)

// Exported for tests.
type (
	TerminalModel = terminalModel
	TickMsg       = tickMsg
)

func NewTerminalModel(st *store.Store, opts TerminalOptions, width, height int) TerminalModel {
	m := newTerminalModel(st, opts)
	m.width = width
	m.height = height

	return m
}

func SetTerminalClock(m TerminalModel, now func() time.Time) TerminalModel {
	m.now = now
	return m
}

func SetExporterClock(e *Exporter, now func() time.Time) {
	e.now = now
}
