package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/zephyrtronium/calculator"
)

func main() {
	log.SetFlags(0)
	var (
		inname, verb, variable string
		at                     *float64
		nl, echo, interactive  bool
		maxlen, maxdepth       int
	)
	setat := func(s string) error {
		v, err := calculator.Evaluate(s)
		if err != nil {
			return err
		}
		x, ok := v.Float()
		if !ok {
			return fmt.Errorf("value of -at must be a number, not %v", v)
		}
		at = &x
		return nil
	}
	flag.StringVar(&inname, "in", "", "input file (default stdin if no args given)")
	flag.StringVar(&verb, "fmt", "%g", "result formatting string")
	flag.StringVar(&variable, "var", "x", "variable to solve equations for")
	flag.Func("at", "evaluate expressions with the variable set to this value", setat)
	flag.BoolVar(&nl, "n", false, "treat separate input lines as separate inputs")
	flag.BoolVar(&echo, "echo", false, "print parse trees")
	flag.BoolVar(&interactive, "i", false, "read inputs interactively")
	flag.IntVar(&maxlen, "maxlen", calculator.DefaultMaxLength, "maximum input length in characters")
	flag.IntVar(&maxdepth, "maxdepth", calculator.DefaultMaxDepth, "maximum nesting of subexpressions")
	flag.Parse()

	c := &calc{
		verb:     verb,
		variable: variable,
		at:       at,
		echo:     echo,
		opts:     []calculator.ParseOption{calculator.Limits(maxdepth, maxlen)},
	}
	if interactive {
		os.Exit(repl(c))
	}

	var ins []string
	f, err := infile(inname, flag.NArg() == 0)
	if err != nil {
		log.Fatal(err)
	}
	if f != nil {
		b, err := io.ReadAll(f)
		if err != nil {
			log.Fatal(err)
		}
		if nl {
			for _, line := range strings.Split(string(b), "\n") {
				if strings.TrimSpace(line) != "" {
					ins = append(ins, line)
				}
			}
		} else {
			ins = append(ins, string(b))
		}
	}
	ins = append(ins, flag.Args()...)

	failed := false
	for _, in := range ins {
		if !c.run(os.Stdout, in) {
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

// calc holds the settings for calculating inputs.
type calc struct {
	verb     string
	variable string
	at       *float64
	echo     bool
	opts     []calculator.ParseOption
}

// run calculates one input and writes its results to w. It reports whether
// every part of the input succeeded.
func (c *calc) run(w io.Writer, text string) bool {
	if c.at != nil {
		return c.evalAt(w, text)
	}
	out, err := calculator.Calculate(text, c.variable, c.opts...)
	if err != nil {
		fmt.Fprintln(w, err)
		return false
	}
	if out.Result != nil {
		c.print(w, out.Result)
		return true
	}
	ok := true
	for _, e := range out.Batch {
		if e.Err != nil {
			fmt.Fprintf(w, "%s : %v\n", e.Source, e.Err)
			ok = false
			continue
		}
		c.print(w, e.Result)
	}
	return ok
}

// evalAt evaluates text as an expression with the variable bound.
func (c *calc) evalAt(w io.Writer, text string) bool {
	opts := append(c.opts[:len(c.opts):len(c.opts)], calculator.FreeVar(c.variable))
	a, err := calculator.ParseString(strings.TrimSpace(text), opts...)
	if err != nil {
		fmt.Fprintln(w, err)
		return false
	}
	if c.echo {
		fmt.Fprintf(w, "%v : ", a)
	}
	v, err := a.EvalAt(*c.at)
	if err != nil {
		fmt.Fprintln(w, err)
		return false
	}
	fmt.Fprintln(w, c.value(v))
	return true
}

func (c *calc) print(w io.Writer, r *calculator.Result) {
	if c.echo {
		if a, err := calculator.ParseString(r.Source, c.opts...); err == nil {
			fmt.Fprintf(w, "%v : ", a)
		} else {
			fmt.Fprintf(w, "%s : ", r.Source)
		}
	}
	if r.Kind == calculator.KindEquation {
		fmt.Fprintf(w, "%s = %s\n", r.Var, c.value(r.Value))
		return
	}
	fmt.Fprintln(w, c.value(r.Value))
}

func (c *calc) value(v calculator.Value) string {
	if x, ok := v.Float(); ok {
		return fmt.Sprintf(c.verb, x)
	}
	return v.String()
}

func infile(inname string, std bool) (io.Reader, error) {
	switch {
	case inname != "" && inname != "-":
		f, err := os.Open(inname)
		if err != nil {
			return nil, err
		}
		return bufio.NewReader(f), nil
	case inname == "-", std:
		return bufio.NewReader(os.Stdin), nil
	}
	return nil, nil
}
