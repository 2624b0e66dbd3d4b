// Copyright (c) 2024, The minishell authors
// See LICENSE for licensing information

//go:build unix

package interp

import (
	"os"
	"os/signal"
	"syscall"
)

// PromptSignals installs the session-wide dispositions the shell
// keeps while waiting for input: SIGQUIT is ignored for the life of
// the process, and SIGINT is left to the line editor, which reads ^C
// itself while the terminal is raw.
func PromptSignals() {
	signal.Ignore(syscall.SIGQUIT)
}

// execSignals switches the parent to the execution profile: SIGINT and
// SIGQUIT are caught and dropped, so the parent survives them while the
// terminal's process group delivers them to the foreground children,
// which terminate naturally and are reaped. Catching rather than
// ignoring them lets the children start with default dispositions
// again across exec. The returned func reinstates the prompt profile.
func execSignals() (restore func()) {
	caught := make(chan os.Signal, 1)
	signal.Notify(caught, os.Interrupt, syscall.SIGQUIT)
	return func() {
		signal.Reset(os.Interrupt, syscall.SIGQUIT)
		signal.Ignore(syscall.SIGQUIT)
	}
}
