package host

import "sync"

// ConsoleLevels are the console methods exposed to page scripts.
var ConsoleLevels = []string{"log", "info", "warn", "error", "debug"}

// IsConsoleLevel reports whether level names a console method.
func IsConsoleLevel(level string) bool {
	for _, l := range ConsoleLevels {
		if l == level {
			return true
		}
	}
	return false
}

// Console receives page console output.
type Console interface {
	Log(level, message string)
}

// ConsoleEntry is one console line.
type ConsoleEntry struct {
	Level   string `json:"level" yaml:"level"`
	Message string `json:"message" yaml:"message"`
}

// MemoryConsole keeps console output in memory.
type MemoryConsole struct {
	mu      sync.Mutex
	entries []ConsoleEntry
}

// NewMemoryConsole returns an empty console.
func NewMemoryConsole() *MemoryConsole {
	return &MemoryConsole{}
}

// Log implements Console.
func (c *MemoryConsole) Log(level, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, ConsoleEntry{Level: level, Message: message})
}

// Entries returns a copy of the recorded lines.
func (c *MemoryConsole) Entries() []ConsoleEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ConsoleEntry, len(c.entries))
	copy(out, c.entries)
	return out
}
