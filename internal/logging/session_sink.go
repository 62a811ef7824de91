package logging

import (
	"context"
	"log/slog"
)

// FieldSessionID identifies one browsing session across its log lines.
const FieldSessionID = "session_id"

// sessionSink routes each record to the terminal and to the shared log file.
// Either side may be absent: the browser runs without a console so log lines
// never land on the rendered screen, and a config without a log directory has
// no file. Only the file copy carries session_id, since that file collects
// every run and `gallerist logs --session` filters on it.
type sessionSink struct {
	console slog.Handler
	file    slog.Handler
}

func newSessionSink(console, file slog.Handler, sessionID string) slog.Handler {
	if file != nil && sessionID != "" {
		file = file.WithAttrs([]slog.Attr{slog.String(FieldSessionID, sessionID)})
	}
	switch {
	case console == nil && file == nil:
		return NoopHandler{}
	case file == nil:
		return console
	}
	return &sessionSink{console: console, file: file}
}

func (s *sessionSink) Enabled(ctx context.Context, level slog.Level) bool {
	if s.console != nil && s.console.Enabled(ctx, level) {
		return true
	}
	return s.file.Enabled(ctx, level)
}

func (s *sessionSink) Handle(ctx context.Context, record slog.Record) error {
	var consoleErr error
	if s.console != nil && s.console.Enabled(ctx, record.Level) {
		consoleErr = s.console.Handle(ctx, record.Clone())
	}
	if s.file.Enabled(ctx, record.Level) {
		if err := s.file.Handle(ctx, record); err != nil {
			return err
		}
	}
	return consoleErr
}

func (s *sessionSink) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &sessionSink{file: s.file.WithAttrs(attrs)}
	if s.console != nil {
		next.console = s.console.WithAttrs(attrs)
	}
	return next
}

func (s *sessionSink) WithGroup(name string) slog.Handler {
	if name == "" {
		return s
	}
	next := &sessionSink{file: s.file.WithGroup(name)}
	if s.console != nil {
		next.console = s.console.WithGroup(name)
	}
	return next
}
