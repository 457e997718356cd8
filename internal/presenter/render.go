package presenter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"codeberg.org/mutker/mysqlstatus/internal/model"
)

const (
	truncatedFormat = "[%d items were truncated.]"
	separatorWidth  = 70
	missingValue    = "-"
	timeLayout      = "2006-01-02 15:04:05"
)

var processColumns = []string{"ID", "HOST", "DB", "TIME", "STATE", "INFO"}

const processFormat = "%-8s %-22s %-12s %7s %-20s %s"

// Fit limits lines to rows. When lines do not fit, the last row reports how
// many lines were left out.
func Fit(lines []string, rows int) []string {
	if rows <= 0 {
		return nil
	}
	if len(lines) <= rows {
		return lines
	}

	keep := rows - 1
	out := make([]string, 0, rows)
	out = append(out, lines[:keep]...)

	return append(out, fmt.Sprintf(truncatedFormat, len(lines)-keep))
}

// Clip cuts s to at most width runes. A non-positive width leaves s intact.
func Clip(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}

	return string(r[:width])
}

// HeaderLines describes the server and the current time.
func HeaderLines(info model.ServerInfo, now time.Time) []string {
	return []string{
		fmt.Sprintf("%s, %s, %s, %d MB",
			info.Hostname, now.Format(timeLayout), info.Version, info.BufferPoolSizeMB),
		strings.Repeat("-", separatorWidth),
	}
}

// StatusLines renders the status keywords in order.
func StatusLines(s *model.StatusSnapshot) []string {
	lines := make([]string, 0, len(model.StatusKeywords))
	for _, k := range model.StatusKeywords {
		v := missingValue
		if s != nil {
			if value, ok := s.Values[k]; ok {
				v = value
			}
		}
		lines = append(lines, fmt.Sprintf("%-35s: %12s", k, v))
	}

	return lines
}

// StatusDumpLines renders every status value, sorted by name.
func StatusDumpLines(s *model.StatusSnapshot) []string {
	if s == nil {
		return nil
	}
	keys := make([]string, 0, len(s.Values))
	for k := range s.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+": "+s.Values[k])
	}

	return lines
}

// ProcessHeader is the column header of the process view.
func ProcessHeader() string {
	cols := make([]any, len(processColumns))
	for i, c := range processColumns {
		cols[i] = c
	}

	return fmt.Sprintf(processFormat, cols...)
}

// ProcessLines renders one line per process, each clipped to width.
func ProcessLines(list model.ProcessList, width int) []string {
	lines := make([]string, 0, len(list))
	for _, p := range list {
		line := fmt.Sprintf(processFormat,
			p.ID, p.Host, p.DB, fmt.Sprint(p.Time), p.State, oneLine(p.Info))
		lines = append(lines, Clip(line, width))
	}

	return lines
}

// GlobalLines renders every global metric in insertion order.
func GlobalLines(g *model.GlobalMetrics) []string {
	if g == nil {
		return nil
	}
	keys := g.Keys()
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		v, _ := g.Get(k)
		lines = append(lines, fmt.Sprintf("%-35s: %12s", k, v))
	}

	return lines
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
