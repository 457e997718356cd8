package presenter

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"

	"codeberg.org/mutker/mysqlstatus/internal/errors"
	"codeberg.org/mutker/mysqlstatus/internal/logger"
	"codeberg.org/mutker/mysqlstatus/internal/model"
	"codeberg.org/mutker/mysqlstatus/internal/store"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

type StreamOptions struct {
	Output io.Writer
	// Format is FormatText or FormatJSON. Empty means FormatText.
	Format string
	// Count stops the stream after that many dumps. Zero is unlimited.
	Count int
	Now   func() time.Time
}

// Stream writes every published snapshot to a flat output.
type Stream struct {
	store *store.Store
	opts  StreamOptions
}

func NewStream(st *store.Store, opts StreamOptions) (*Stream, error) {
	if opts.Output == nil {
		return nil, errors.New().WithMessage(errors.ErrInvalidArgument, "stream output is required")
	}
	switch opts.Format {
	case "":
		opts.Format = FormatText
	case FormatText, FormatJSON:
	default:
		return nil, errors.New().WithData(errors.ErrInvalidFormat, opts.Format)
	}
	if opts.Count < 0 {
		return nil, errors.New().WithData(errors.ErrInvalidArgument, struct {
			Field string
			Value int
		}{
			Field: "count",
			Value: opts.Count,
		})
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Stream{store: st, opts: opts}, nil
}

func (s *Stream) Run(ctx context.Context) error {
	defer s.store.Stop()

	logger.Debug().Str("format", s.opts.Format).Int("count", s.opts.Count).Msg("Starting stream presenter")

	w := bufio.NewWriter(s.opts.Output)
	written := 0
	for {
		snap, ok := next(ctx, s.store)
		if !ok {
			return nil
		}

		if err := s.write(w, snap); err != nil {
			return errors.New().Wrap(errors.ErrWriteOutput, err)
		}
		if err := w.Flush(); err != nil {
			return errors.New().Wrap(errors.ErrWriteOutput, err)
		}

		written++
		if s.opts.Count > 0 && written >= s.opts.Count {
			logger.Debug().Int("count", written).Msg("Stream count reached")
			return nil
		}
	}
}

func (s *Stream) write(w io.Writer, snap model.Snapshot) error {
	// JSON dumps are newline-delimited objects; the newline is the separator.
	if s.opts.Format == FormatJSON {
		return json.NewEncoder(w).Encode(newStreamRecord(snap, s.opts.Now()))
	}

	var lines []string
	switch snap.Mode {
	case model.ModeStatus:
		lines = StatusDumpLines(snap.Status)
	case model.ModeProcess:
		lines = append([]string{ProcessHeader()}, ProcessLines(snap.Processes, 0)...)
	default:
		lines = GlobalLines(snap.Global)
	}
	lines = append(lines, strings.Repeat("=", separatorWidth))

	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")

	return err
}

type streamRecord struct {
	Mode      string            `json:"mode"`
	Seq       uint64            `json:"seq"`
	Time      string            `json:"time"`
	Status    map[string]string `json:"status,omitempty"`
	Processes model.ProcessList `json:"processes,omitempty"`
	Global    map[string]string `json:"global,omitempty"`
}

func newStreamRecord(snap model.Snapshot, now time.Time) streamRecord {
	rec := streamRecord{
		Mode: snap.Mode.String(),
		Seq:  snap.Seq,
		Time: now.UTC().Format(time.RFC3339),
	}

	switch snap.Mode {
	case model.ModeStatus:
		if snap.Status != nil {
			rec.Status = snap.Status.Values
		}
	case model.ModeProcess:
		rec.Processes = snap.Processes
	default:
		if snap.Global != nil {
			rec.Global = snap.Global.Map()
		}
	}

	return rec
}
