package repl

import "strings"

// replCommands are the completion candidates, ordered as shown by help.
var replCommands = []string{
	"container", "container list", "container fields",
	"record", "record search", "record top", "record get",
	"stats",
	"cache", "cache invalidate",
	"status",
	"mask",
	"help", "exit", "quit",
}

// Completer suggests commands for a typed prefix.
type Completer struct {
	commands []string
}

// NewCompleter returns a completer over the built-in command set.
func NewCompleter() *Completer {
	return &Completer{commands: replCommands}
}

// Complete returns the commands starting with prefix, in help order.
func (c *Completer) Complete(prefix string) []string {
	var matches []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			matches = append(matches, cmd)
		}
	}
	return matches
}
