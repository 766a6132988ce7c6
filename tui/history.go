// Package tui is the real-time Bubble Tea front end for the wasteland game.
package tui

import "strings"

// History remembers submitted commands for Up/Down recall. Bare dialogue
// reply numbers are not kept since they only make sense for one node.
type History struct {
	lines []string
	limit int
	pos   int // len(lines) when not browsing
}

// NewHistory creates a history holding at most limit commands.
func NewHistory(limit int) *History {
	if limit < 1 {
		limit = 1
	}
	return &History{lines: make([]string, 0, limit), limit: limit}
}

// Push records a command. Repeats of the newest entry and reply numbers
// are dropped, and the oldest entry is evicted past the limit.
func (h *History) Push(cmd string) {
	cmd = strings.TrimSpace(cmd)
	defer h.ResetCursor()
	if cmd == "" || isReplyNumber(cmd) {
		return
	}
	if n := len(h.lines); n > 0 && h.lines[n-1] == cmd {
		return
	}
	if len(h.lines) == h.limit {
		copy(h.lines, h.lines[1:])
		h.lines = h.lines[:len(h.lines)-1]
	}
	h.lines = append(h.lines, cmd)
}

// Prev steps back to an older command, stopping at the oldest.
func (h *History) Prev() (string, bool) {
	if len(h.lines) == 0 {
		return "", false
	}
	if h.pos > 0 {
		h.pos--
	}
	return h.lines[h.pos], true
}

// Next steps toward the newest command. Past the newest it returns
// ("", false) and browsing ends.
func (h *History) Next() (string, bool) {
	if h.pos >= len(h.lines) {
		return "", false
	}
	h.pos++
	if h.pos == len(h.lines) {
		return "", false
	}
	return h.lines[h.pos], true
}

// ResetCursor ends browsing.
func (h *History) ResetCursor() {
	h.pos = len(h.lines)
}

func isReplyNumber(cmd string) bool {
	for _, r := range cmd {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(cmd) <= 2
}
