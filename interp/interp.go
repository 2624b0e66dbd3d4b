// Copyright (c) 2024, The minishell authors
// See LICENSE for licensing information

// Package interp executes parsed pipelines against the operating
// system: it spawns one child per stage, wires pipes and
// redirections, runs builtins, and collects POSIX exit statuses.
package interp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/alx-sch/minishell/expand"
	"github.com/alx-sch/minishell/syntax"
)

// errPrefix starts every diagnostic line the shell itself prints.
const errPrefix = "minishell: "

// Runner executes pipelines. It is not safe for concurrent use; an
// interactive shell drives one pipeline at a time.
type Runner struct {
	// Env is the shell's environment. Only the Runner's own process
	// mutates it, and only between pipelines.
	Env *expand.Environ

	// Stdin, Stdout and Stderr are the shell's standard streams,
	// inherited by stages that no pipe or redirection overrides.
	Stdin  *os.File
	Stdout *os.File
	Stderr io.Writer

	// ReadLine supplies continuation lines for heredoc bodies,
	// prompting with its argument. A nil ReadLine reads Stdin without
	// a prompt. Any error other than io.EOF aborts the heredoc and
	// the pipeline with status 130.
	ReadLine func(prompt string) (string, error)

	// Exited is set once the exit builtin has run in the shell
	// process; the caller should stop its read loop.
	Exited bool

	lineRd *bufio.Reader
}

// Option configures a Runner at construction time.
type Option func(*Runner)

// StdIO overrides the Runner's standard streams.
func StdIO(in, out *os.File, err io.Writer) Option {
	return func(r *Runner) {
		r.Stdin, r.Stdout, r.Stderr = in, out, err
	}
}

// Env overrides the Runner's environment.
func Env(env *expand.Environ) Option {
	return func(r *Runner) { r.Env = env }
}

// LineReader wires the callback used to read heredoc bodies.
func LineReader(fn func(prompt string) (string, error)) Option {
	return func(r *Runner) { r.ReadLine = fn }
}

// New builds a Runner, copying the process environment and standard
// streams unless options override them.
func New(opts ...Option) *Runner {
	r := &Runner{
		Env:    expand.NewEnviron(os.Environ()...),
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes one pipeline and records its exit status in the
// environment. An empty stage list leaves the status untouched.
//
// A single stage without redirections naming a parent-only builtin
// runs in the shell process, so its effects on the environment and
// working directory persist; everything else takes the fork path.
func (r *Runner) Run(ctx context.Context, stages []*syntax.Stage) uint8 {
	if len(stages) == 0 {
		return r.Env.LastStatus()
	}
	var code uint8
	if st := stages[0]; len(stages) == 1 && len(st.Redirs) == 0 && isParentBuiltin(st.Cmd) {
		code = r.builtin(st.Argv, r.Stdout, true)
	} else {
		code = r.pipeline(ctx, stages)
	}
	r.Env.SetLastStatus(code)
	return code
}

func (r *Runner) errf(format string, a ...any) {
	fmt.Fprintf(r.Stderr, errPrefix+format, a...)
}

// readLine fetches one heredoc continuation line, without its
// trailing newline.
func (r *Runner) readLine(prompt string) (string, error) {
	if r.ReadLine != nil {
		return r.ReadLine(prompt)
	}
	if r.lineRd == nil {
		r.lineRd = bufio.NewReader(r.Stdin)
	}
	line, err := r.lineRd.ReadString('\n')
	if err == io.EOF && line != "" {
		return line, nil
	}
	if err != nil {
		return "", err
	}
	return line[:len(line)-1], nil
}

// errText extracts the system error message from a wrapped path
// error, so diagnostics read "minishell: <token>: <message>" rather
// than repeating the operation and path.
func errText(err error) string {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return pe.Err.Error()
	}
	return err.Error()
}

func closeFile(f *os.File) {
	if f != nil {
		f.Close()
	}
}
