// Package rizoncmd implements the rizon binary's command dispatch: spec.md
// §6's two CLI modes, "rizon <file>" (run) and no arguments (a line-oriented
// REPL), plus --dump diagnostic flags mirroring VM{disassemble_compiled,
// disassemble_instructions, print_stack}.
//
// The Cmd struct, its flag tags, and its reflection-based dispatch by
// method name are carried over from github.com/mna/nenuphar's
// internal/maincmd/maincmd.go, reduced from that tool's four
// compiler-phase subcommands to the two modes spec.md §6 names.
package rizoncmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/mna/mainer"
	"github.com/rizonlang/rizon/lang/compiler"
	"github.com/rizonlang/rizon/lang/disasm"
	"github.com/rizonlang/rizon/lang/heap"
	"github.com/rizonlang/rizon/lang/native"
	"github.com/rizonlang/rizon/lang/vm"
)

const binName = "rizon"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] [<path>]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] [<path>]
       %[1]s -h|--help
       %[1]s -v|--version

Bytecode compiler and VM for the Rizon programming language.

With a <path> argument, compiles and runs that file. With no arguments,
starts a line-oriented REPL.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
       --dump-chunk              Disassemble each compiled chunk before
                                 running it.
       --dump-instr              Trace every instruction as it executes.
       --dump-stack              Print the operand stack before every
                                 instruction (implies --dump-instr).
`, binName)
)

// Cmd is the rizon binary's top-level command, parsed by mainer.Parser.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	DumpChunk bool `flag:"dump-chunk"`
	DumpInstr bool `flag:"dump-instr"`
	DumpStack bool `flag:"dump-stack"`

	args  []string
	cmdFn func(context.Context, mainer.Stdio, []string) error
}

func (c *Cmd) SetArgs(args []string)      { c.args = args }
func (c *Cmd) SetFlags(_ map[string]bool) {}

// Validate picks run (a path argument given) or repl (none given); spec.md
// §6 names no other mode.
func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) > 1 {
		return errors.New("at most one file path may be given")
	}

	cmdName := "repl"
	if len(c.args) == 1 {
		cmdName = "run"
	}

	commands := buildCmds(c)
	c.cmdFn = commands[cmdName]
	if c.cmdFn == nil {
		return fmt.Errorf("unknown command: %s", cmdName)
	}
	return nil
}

func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{EnvVars: false, EnvPrefix: binName + "_"}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if err := c.cmdFn(ctx, stdio, c.args); err != nil {
		if ce := (*exitCodeError)(nil); errors.As(err, &ce) {
			return mainer.ExitCode(ce.code)
		}
		return mainer.Failure
	}
	return mainer.Success
}

// exitCodeError lets Run carry spec.md §7's 65/70 exit codes back through
// the mainer.Main convention (which only distinguishes Success/Failure
// unless a command-specific error says otherwise).
type exitCodeError struct {
	code int
	err  error
}

func (e *exitCodeError) Error() string { return e.err.Error() }
func (e *exitCodeError) Unwrap() error { return e.err }

// Run implements the "rizon <file>" CLI mode: compile and execute one file,
// exiting 65 on a compile error or 70 on a runtime error (spec.md §7).
func (c *Cmd) Run(_ context.Context, stdio mainer.Stdio, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return &exitCodeError{code: 70, err: err}
	}
	return c.interpret(stdio, string(src))
}

// Repl implements the no-argument CLI mode: a line-oriented read-compile-run
// loop sharing one heap and one VM (and hence one global namespace) across lines,
// exactly as spec.md §9's "globals map is per-VM instance" implies for a
// REPL session backed by one VM.
func (c *Cmd) Repl(_ context.Context, stdio mainer.Stdio, _ []string) error {
	h := heap.New()
	m := vm.New(h)
	native.Register(m, h)
	m.Stdout = stdio.Stdout

	scanner := bufio.NewScanner(stdio.Stdin)
	fmt.Fprint(stdio.Stdout, "> ")
	for scanner.Scan() {
		line := scanner.Text()
		if err := c.runOne(m, h, stdio, line); err != nil {
			fmt.Fprintf(stdio.Stderr, "%s\n", err)
		}
		fmt.Fprint(stdio.Stdout, "> ")
	}
	fmt.Fprintln(stdio.Stdout)
	return nil
}

func (c *Cmd) interpret(stdio mainer.Stdio, src string) error {
	h := heap.New()
	m := vm.New(h)
	native.Register(m, h)
	m.Stdout = stdio.Stdout
	return c.runOne(m, h, stdio, src)
}

func (c *Cmd) runOne(m *vm.VM, h *heap.Heap, stdio mainer.Stdio, src string) error {
	fn, err := compiler.Compile(src, h)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return &exitCodeError{code: 65, err: err}
	}
	if c.DumpChunk {
		dumpChunk(stdio, fn)
	}
	m.TraceInstructions = c.DumpInstr || c.DumpStack
	m.TraceStack = c.DumpStack

	if err := m.Interpret(fn); err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return &exitCodeError{code: 70, err: err}
	}
	return nil
}

func dumpChunk(stdio mainer.Stdio, fn *heap.Function) {
	disasm.Chunk(stdio.Stdout, fn.Chunk, fn.String())
}

// valid commands are those that take a context, a mainer.Stdio and a slice
// of strings as input, and return an error as output, matching the
// teacher's buildCmds convention exactly.
func buildCmds(v interface{}) map[string]func(context.Context, mainer.Stdio, []string) error {
	cmds := make(map[string]func(context.Context, mainer.Stdio, []string) error)

	vv := reflect.ValueOf(v)
	vt := vv.Type()
	for i := 0; i < vt.NumMethod(); i++ {
		m := vt.Method(i)
		mt := m.Type
		if mt.NumIn() != 4 || mt.NumOut() != 1 {
			continue
		}
		if rt := mt.Out(0); rt.Kind() != reflect.Interface || rt.Name() != "error" {
			continue
		}
		cmds[toLower(m.Name)] = vv.Method(i).Interface().(func(context.Context, mainer.Stdio, []string) error)
	}
	return cmds
}

func toLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
