package repl

import (
	"os"
	"path/filepath"
	"strings"
)

// History keeps the REPL command history, most recent last.
type History struct {
	entries []string
	maxSize int
	file    string
}

// NewHistory creates a History persisted under ~/.grcbridge.
func NewHistory() *History {
	home, _ := os.UserHomeDir()
	return &History{
		maxSize: 1000,
		file:    filepath.Join(home, ".grcbridge", "history"),
	}
}

// Add records a command, dropping the oldest entry past maxSize.
func (h *History) Add(cmd string) {
	h.entries = append(h.entries, cmd)
	if len(h.entries) > h.maxSize {
		h.entries = h.entries[len(h.entries)-h.maxSize:]
	}
}

// Get returns the entry at index, where 0 is the most recent.
func (h *History) Get(index int) string {
	if index < 0 || index >= len(h.entries) {
		return ""
	}
	return h.entries[len(h.entries)-1-index]
}

// Load reads persisted history. A missing file is not an error.
func (h *History) Load() error {
	data, err := os.ReadFile(h.file)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	for _, line := range strings.Split(string(data), "\n") {
		if line != "" {
			h.entries = append(h.entries, line)
		}
	}
	return nil
}

// Save writes the history file, creating its directory if needed.
func (h *History) Save() error {
	if err := os.MkdirAll(filepath.Dir(h.file), 0700); err != nil {
		return err
	}

	var b strings.Builder
	for _, entry := range h.entries {
		b.WriteString(entry)
		b.WriteByte('\n')
	}
	return os.WriteFile(h.file, []byte(b.String()), 0600)
}
