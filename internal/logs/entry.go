package logs

import (
	"encoding/json"
	"strings"
)

// Entry is the subset of a JSON log record used for filtering and display.
type Entry struct {
	Time          string `json:"ts"`
	Level         string `json:"level"`
	Message       string `json:"msg"`
	Component     string `json:"component"`
	SessionID     string `json:"session_id"`
	CorrelationID string `json:"correlation_id"`
	EventType     string `json:"event_type"`

	Raw        string `json:"-"`
	Structured bool   `json:"-"`
}

// ParseEntry decodes one log line. Lines that are not JSON objects come back
// with only Raw set.
func ParseEntry(line string) Entry {
	entry := Entry{Raw: line}
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") {
		return entry
	}
	if err := json.Unmarshal([]byte(trimmed), &entry); err != nil {
		return Entry{Raw: line}
	}
	entry.Raw = line
	entry.Structured = true
	return entry
}

var levelRank = map[string]int{"debug": 0, "info": 1, "warn": 2, "error": 3}

// Filter narrows the lines Tail returns. Zero values match everything.
type Filter struct {
	MinLevel      string
	SessionID     string
	Component     string
	CorrelationID string
}

func (f Filter) empty() bool {
	return f == Filter{}
}

// Match reports whether entry passes the filter. Unstructured lines only
// pass an empty filter.
func (f Filter) Match(entry Entry) bool {
	if f.empty() {
		return true
	}
	if !entry.Structured {
		return false
	}
	if f.MinLevel != "" {
		want, ok := levelRank[strings.ToLower(f.MinLevel)]
		if ok && levelRank[strings.ToLower(entry.Level)] < want {
			return false
		}
	}
	if f.SessionID != "" && entry.SessionID != f.SessionID {
		return false
	}
	if f.Component != "" && entry.Component != f.Component {
		return false
	}
	if f.CorrelationID != "" && entry.CorrelationID != f.CorrelationID {
		return false
	}
	return true
}
