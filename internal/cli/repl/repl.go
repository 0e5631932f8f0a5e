package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Runner executes one parsed command line.
type Runner func(args []string) error

// REPL reads command lines, dispatches them to a Runner, and keeps a
// persistent history.
type REPL struct {
	input     io.Reader
	output    io.Writer
	completer *Completer
	history   *History
	run       Runner
}

// New creates a REPL reading from stdin. The runner receives the
// whitespace-split tokens of each entered line.
func New(run Runner) *REPL {
	return &REPL{
		input:     os.Stdin,
		output:    os.Stdout,
		completer: NewCompleter(),
		history:   NewHistory(),
		run:       run,
	}
}

// Run loops until "exit", "quit", or EOF. History is loaded on entry
// and persisted on exit; history I/O failures do not stop the session.
func (r *REPL) Run() error {
	_ = r.history.Load()
	defer func() { _ = r.history.Save() }()

	scanner := bufio.NewScanner(r.input)

	for {
		fmt.Fprint(r.output, "grcbridge> ")
		if !scanner.Scan() {
			fmt.Fprintln(r.output)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		r.history.Add(line)

		switch line {
		case "exit", "quit":
			return nil
		case "help":
			r.printHelp()
		default:
			if err := r.dispatch(line); err != nil {
				fmt.Fprintf(r.output, "Error: %v\n", err)
			}
		}
	}
}

func (r *REPL) dispatch(line string) error {
	if r.run == nil {
		return fmt.Errorf("no command runner configured")
	}
	return r.run(strings.Fields(line))
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.output, "Commands:")
	for _, cmd := range r.completer.Complete("") {
		fmt.Fprintf(r.output, "  %s\n", cmd)
	}
	fmt.Fprintln(r.output, "  exit")
}
