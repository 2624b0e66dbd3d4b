// Copyright (c) 2024, The minishell authors
// See LICENSE for licensing information

package interp

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/alx-sch/minishell/expand"
	"github.com/alx-sch/minishell/syntax"
)

// child is the parent's record of one spawned stage, reaped in stage
// order once every stage has been started.
type child struct {
	cmd  *exec.Cmd   // running external process, nil otherwise
	stop func() bool // cancels the ctx watcher for cmd
	done chan uint8  // in-process builtin stage, nil otherwise
	code uint8       // result for stages that never became a process
}

// pipeline spawns one child per stage, wiring pipes and redirections,
// then waits for all of them in index order. The pipeline's status is
// the last stage's: its exit code, or 128 plus the signal number if a
// signal killed it.
func (r *Runner) pipeline(ctx context.Context, stages []*syntax.Stage) uint8 {
	bodies, interrupted := r.heredocBodies(stages)
	if interrupted {
		return 130
	}

	restore := execSignals()
	defer restore()

	// Builtin stages run in-process; the group keeps them from
	// outliving the pipeline.
	var g errgroup.Group
	defer g.Wait()

	children := make([]child, len(stages))
	last := len(stages) - 1
	var prevRead *os.File
	for k, st := range stages {
		var curRead, curWrite *os.File
		if k < last {
			var err error
			curRead, curWrite, err = os.Pipe()
			if err != nil {
				r.errf("pipe: %s\n", errText(err))
				closeFile(prevRead)
				r.reap(children[:k])
				return 1
			}
		}
		r.startStage(ctx, &children[k], &g, st, bodies, prevRead, curWrite)
		prevRead = curRead
	}

	var code uint8
	for k := range children {
		c := &children[k]
		status := c.code
		switch {
		case c.cmd != nil:
			status = waitExit(c.cmd.Wait())
			c.stop()
		case c.done != nil:
			status = <-c.done
		}
		if k == last {
			code = status
		}
	}
	return code
}

// reap waits for the stages spawned before the pipeline had to be
// abandoned, so no child outlives the prompt.
func (r *Runner) reap(children []child) {
	for k := range children {
		c := &children[k]
		switch {
		case c.cmd != nil:
			c.cmd.Wait()
			c.stop()
		case c.done != nil:
			<-c.done
		}
	}
}

// startStage resolves and spawns a single stage. It takes ownership
// of the parent's copies of prevRead and curWrite: whichever path the
// stage takes, they are closed exactly once, so the parent never holds
// a pipe end after the stage is underway.
func (r *Runner) startStage(ctx context.Context, c *child, g *errgroup.Group, st *syntax.Stage,
	bodies map[*syntax.Redir]string, prevRead, curWrite *os.File) {
	in, out, ok := r.applyRedirs(st, bodies)
	if !ok {
		// The spec'd child would have died with a perror and exit 1.
		c.code = 1
		closeFile(prevRead)
		closeFile(curWrite)
		return
	}

	stdin := r.Stdin
	if in != nil {
		stdin = in
	} else if prevRead != nil {
		stdin = prevRead
	}
	stdout := r.Stdout
	if out != nil {
		stdout = out
	} else if curWrite != nil {
		stdout = curWrite
	}

	release := func() {
		closeFile(in)
		closeFile(out)
		closeFile(prevRead)
		closeFile(curWrite)
	}

	if st.Cmd == "" {
		// Redirections without a command: the targets were opened, output
		// ones created (and truncated unless appending), which is all
		// such a stage does.
		release()
		return
	}

	if IsBuiltin(st.Cmd) {
		// Builtins in a pipeline run in-process but observe forked
		// semantics: stdout goes to the pipe, shell state stays put.
		done := make(chan uint8, 1)
		c.done = done
		argv := st.Argv
		g.Go(func() error {
			done <- r.builtin(argv, stdout, false)
			release()
			return nil
		})
		return
	}

	path, code := r.lookPath(st.Cmd)
	if code != 0 {
		c.code = code
		release()
		return
	}
	cmd := &exec.Cmd{
		Path:   path,
		Args:   st.Argv,
		Env:    r.Env.Environ(),
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: r.Stderr,
	}
	if err := cmd.Start(); err != nil {
		r.errf("%s: %s\n", st.Cmd, errText(err))
		c.code = startExit(err)
		release()
		return
	}
	c.cmd = cmd
	c.stop = context.AfterFunc(ctx, func() {
		cmd.Process.Signal(os.Kill)
	})
	release()
}

// applyRedirs opens a stage's redirections in source order. Later
// redirections of the same stream supersede earlier ones, but every
// output target is still created or truncated. On a failed open the
// stage is dead: the error is reported and ok is false.
func (r *Runner) applyRedirs(st *syntax.Stage, bodies map[*syntax.Redir]string) (in, out *os.File, ok bool) {
	fail := func(target string, err error) (*os.File, *os.File, bool) {
		r.errf("%s: %s\n", target, errText(err))
		closeFile(in)
		closeFile(out)
		return nil, nil, false
	}
	for i := range st.Redirs {
		rd := &st.Redirs[i]
		switch rd.Kind {
		case syntax.RedirIn:
			f, err := os.Open(rd.Target)
			if err != nil {
				return fail(rd.Target, err)
			}
			closeFile(in)
			in = f
		case syntax.RedirHdoc:
			pr, pw, err := os.Pipe()
			if err != nil {
				return fail(rd.Target, err)
			}
			body := bodies[rd]
			go func() {
				io.WriteString(pw, body)
				pw.Close()
			}()
			closeFile(in)
			in = pr
		case syntax.RedirOutTrunc, syntax.RedirOutAppend:
			flags := os.O_CREATE | os.O_WRONLY
			if rd.Kind == syntax.RedirOutAppend {
				flags |= os.O_APPEND
			} else {
				flags |= os.O_TRUNC
			}
			f, err := os.OpenFile(rd.Target, flags, 0o644)
			if err != nil {
				return fail(rd.Target, err)
			}
			closeFile(out)
			out = f
		}
	}
	return in, out, true
}

// heredocBodies collects every heredoc body before any stage starts,
// prompting line by line until the delimiter. Bodies under an unquoted
// delimiter expand variables, single quotes included. interrupted is
// true when the read was broken off, which cancels the pipeline.
func (r *Runner) heredocBodies(stages []*syntax.Stage) (bodies map[*syntax.Redir]string, interrupted bool) {
	for _, st := range stages {
		for i := range st.Redirs {
			rd := &st.Redirs[i]
			if rd.Kind != syntax.RedirHdoc {
				continue
			}
			body, err := r.readHeredoc(rd.Target)
			if err != nil {
				return nil, true
			}
			if !rd.Quoted {
				body = expand.Literal(r.Env, body, true)
			}
			if bodies == nil {
				bodies = make(map[*syntax.Redir]string)
			}
			bodies[rd] = body
		}
	}
	return bodies, false
}

func (r *Runner) readHeredoc(delim string) (string, error) {
	var sb strings.Builder
	for {
		line, err := r.readLine("> ")
		if err == io.EOF {
			r.errf("warning: here-document delimited by end-of-file (wanted `%s')\n", delim)
			return sb.String(), nil
		}
		if err != nil {
			return "", err
		}
		if line == delim {
			return sb.String(), nil
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
}

// waitExit translates a reaped child's result into a shell exit
// status: the exit code on a normal exit, 128 plus the signal number
// on a signal death.
func waitExit(err error) uint8 {
	if err == nil {
		return 0
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		if ws, ok := ee.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return uint8(128 + int(ws.Signal()))
		}
		return uint8(ee.ExitCode())
	}
	return 1
}

// startExit maps a failure to start an already resolved command onto
// the POSIX convention: 127 when the file disappeared, 126 when it
// cannot be executed.
func startExit(err error) uint8 {
	if errors.Is(err, fs.ErrNotExist) {
		return 127
	}
	return 126
}
