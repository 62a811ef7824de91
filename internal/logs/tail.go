package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

const (
	pollInterval = 250 * time.Millisecond
	maxLineBytes = 1024 * 1024
)

// TailOptions controls a Tail call. A negative Offset means "start from the
// last Limit lines"; otherwise reading resumes at Offset.
type TailOptions struct {
	Offset int64
	Limit  int
	Follow bool
	Wait   time.Duration
	Filter Filter
}

// TailResult carries the matching lines and the offset to resume from.
type TailResult struct {
	Entries []Entry
	Offset  int64
}

// Lines returns the raw text of each entry.
func (r TailResult) Lines() []string {
	out := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		out[i] = e.Raw
	}
	return out
}

// Tail reads log lines from path. A missing file yields an empty result so
// callers can follow a log that has not been created yet.
func Tail(ctx context.Context, path string, opts TailOptions) (TailResult, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return TailResult{}, nil
	case err != nil:
		return TailResult{Offset: opts.Offset}, fmt.Errorf("stat log file: %w", err)
	case info.IsDir():
		return TailResult{Offset: opts.Offset}, fmt.Errorf("log path %q is a directory", path)
	}

	offset := opts.Offset
	var result TailResult
	switch {
	case offset < 0 && opts.Limit <= 0:
		result = TailResult{Offset: info.Size()}
	case offset < 0:
		result, err = scan(path, 0, opts.Filter, opts.Limit)
	default:
		if offset > info.Size() {
			// Truncated or rotated underneath us.
			offset = 0
		}
		result, err = scan(path, offset, opts.Filter, 0)
	}
	if err != nil {
		return TailResult{Offset: opts.Offset}, err
	}
	if len(result.Entries) > 0 || !opts.Follow || opts.Wait <= 0 {
		return result, nil
	}
	return follow(ctx, path, result.Offset, opts)
}

// scan reads complete lines from offset to EOF keeping matching entries.
// keep > 0 retains only the newest keep entries.
func scan(path string, offset int64, filter Filter, keep int) (TailResult, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return TailResult{}, nil
		}
		return TailResult{}, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return TailResult{}, fmt.Errorf("seek log file: %w", err)
	}

	reader := bufio.NewReaderSize(file, 64*1024)
	var entries []Entry
	pos := offset
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 && line[len(line)-1] == '\n' {
			pos += int64(len(line))
			text := trimNewline(line)
			if len(text) > maxLineBytes {
				text = text[:maxLineBytes]
			}
			if entry := ParseEntry(text); filter.Match(entry) {
				entries = append(entries, entry)
				if keep > 0 && len(entries) > keep {
					entries = entries[1:]
				}
			}
		}
		if err != nil {
			// A partial trailing line is left for the next read.
			if errors.Is(err, io.EOF) {
				break
			}
			return TailResult{}, fmt.Errorf("read log file: %w", err)
		}
	}
	return TailResult{Entries: entries, Offset: pos}, nil
}

func follow(ctx context.Context, path string, offset int64, opts TailOptions) (TailResult, error) {
	deadline := time.NewTimer(opts.Wait)
	defer deadline.Stop()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return TailResult{Offset: offset}, ctx.Err()
		case <-deadline.C:
			return TailResult{Offset: offset}, nil
		case <-ticker.C:
		}
		result, err := scan(path, offset, opts.Filter, 0)
		if err != nil {
			return TailResult{Offset: offset}, err
		}
		offset = result.Offset
		if len(result.Entries) > 0 {
			return result, nil
		}
	}
}

func trimNewline(s string) string {
	s = s[:len(s)-1]
	if n := len(s); n > 0 && s[n-1] == '\r' {
		s = s[:n-1]
	}
	return s
}
