package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/zephyrtronium/calculator"
)

const (
	historyFile = ".calculator_history"
	promptMain  = "> "
	promptCont  = ". "
)

const help = `Enter an expression like 2 + 3 * 4, an equation like 2x + 3 = 7,
or several of either separated by semicolons.
Commands:
  :help       show this message
  :functions  list permitted functions and constants
  :quit       exit`

// repl reads and calculates inputs interactively until EOF or :quit. It
// returns the exit status.
func repl(c *calc) int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	var histPath string
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			ln.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				ln.WriteHistory(f)
				f.Close()
			}
		}()
	}

	for {
		text, ok := readInput(ln)
		if !ok {
			fmt.Println()
			return 0
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if strings.HasPrefix(text, ":") {
			if command(os.Stdout, text) {
				return 0
			}
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(text, "\n", " "))
		c.run(os.Stdout, text)
	}
}

// readInput reads lines until the brackets they open are closed. The second
// result is false at EOF.
func readInput(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Aborted with ^C: discard the input.
			return "", true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if calculator.OpenDepth(b.String()) == 0 {
			return b.String(), true
		}
	}
}

// command runs a REPL command and reports whether to quit.
func command(w io.Writer, cmd string) bool {
	switch strings.ToLower(cmd) {
	case ":quit", ":q", ":exit":
		return true
	case ":help":
		fmt.Fprintln(w, help)
	case ":functions":
		fmt.Fprintln(w, "functions:", strings.Join(calculator.Functions(), " "))
		fmt.Fprintln(w, "constants:", strings.Join(calculator.Constants(), " "))
	default:
		fmt.Fprintf(w, "unknown command %s. Type :help for help.\n", cmd)
	}
	return false
}
