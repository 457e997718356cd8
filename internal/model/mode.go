package model

import (
	"strings"

	"codeberg.org/mutker/mysqlstatus/internal/errors"
)

// Mode selects the query set the sampler runs and the view a presenter renders.
type Mode int

const (
	ModeStatus Mode = iota
	ModeProcess
	ModeGlobal
)

// Modes lists every mode in display order.
var Modes = []Mode{ModeStatus, ModeProcess, ModeGlobal}

func (m Mode) String() string {
	switch m {
	case ModeStatus:
		return "status"
	case ModeProcess:
		return "process"
	case ModeGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// IsValid reports whether m is one of the defined modes.
func (m Mode) IsValid() bool {
	switch m {
	case ModeStatus, ModeProcess, ModeGlobal:
		return true
	default:
		return false
	}
}

// ParseMode maps a mode name to a Mode. Unknown names are rejected.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "status":
		return ModeStatus, nil
	case "process":
		return ModeProcess, nil
	case "global":
		return ModeGlobal, nil
	}

	return ModeStatus, errors.New().WithData(errors.ErrInvalidMode, s)
}

// NormalizeMode is the lenient mapping: "process" and "status" map to their
// modes and everything else collapses to ModeGlobal. Prefer ParseMode for
// user input.
func NormalizeMode(s string) Mode {
	switch s {
	case "process":
		return ModeProcess
	case "status":
		return ModeStatus
	default:
		return ModeGlobal
	}
}
