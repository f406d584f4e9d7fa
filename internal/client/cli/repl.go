package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL needs. Runner satisfies it.
type execIface interface {
	Dispatch(ctx context.Context, cmd string, operands, flags []string) error
}

// runREPL reads one command per line and dispatches it. Flags may follow
// the command the same way as on the command line. The loop ends on EOF or
// "exit"/"quit"; command errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("vault %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, rest := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn("Available commands: process, sync, (l)ist, timeline, status, retry, review, verify, exit")
		case "exit", "quit":
			printlnFn("Bye!")
			return
		case "daemon", "shell":
			printlnFn("Not available in the shell:", cmd)
		default:
			if err := a.Dispatch(ctx, cmd, operands(rest), rest); err != nil {
				printlnFn("error:", err)
			}
		}
	}
}

func operands(args []string) []string {
	return positional(args, CommandValueFlags)
}

// Shell runs the interactive prompt on in.
func (r *Runner) Shell(ctx context.Context, in io.Reader) error {
	status := func() string {
		if r.app.Engine.Online() {
			return "(online)"
		}
		return "(offline)"
	}
	printlnFn("Evidence vault shell (type 'help' for commands)")
	go func() { _ = r.app.Watcher.Run(ctx) }()
	runREPL(ctx, r, status, bufio.NewScanner(in))
	return nil
}
