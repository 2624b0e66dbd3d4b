// Copyright (c) 2024, The minishell authors
// See LICENSE for licensing information

// minishell is a miniature interactive POSIX-style shell: it reads a
// line, tokenizes it, expands variables, and executes the resulting
// pipeline, wiring pipes and redirections the way the bigger shells
// do.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"github.com/alx-sch/minishell/expand"
	"github.com/alx-sch/minishell/interp"
	"github.com/alx-sch/minishell/syntax"
)

var command = flag.String("c", "", "command to be executed")

func main() {
	os.Exit(main1())
}

func main1() int {
	flag.Parse()
	interp.PromptSignals()
	r := interp.New()
	if *command != "" {
		runLine(r, *command)
		return int(r.Env.LastStatus())
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return runAll(r, os.Stdin)
	}
	return runInteractive(r, loadConfig())
}

// runLine drives one input line through the tokenizer, the expander,
// the pipeline builder, and the executor.
func runLine(r *interp.Runner, line string) {
	toks, err := syntax.Tokenize(line)
	if err != nil {
		fmt.Fprintf(os.Stderr, "minishell: %v\n", err)
		r.Env.SetLastStatus(2)
		return
	}
	expand.Words(r.Env, toks, false)
	stages, err := syntax.Parse(toks)
	if err != nil {
		fmt.Fprintf(os.Stderr, "minishell: %v\n", err)
		r.Env.SetLastStatus(2)
		return
	}
	r.Run(context.Background(), stages)
}

// runAll executes non-interactive input line by line, as when a
// script is piped into the shell.
func runAll(r *interp.Runner, stdin io.Reader) int {
	scanner := bufio.NewScanner(stdin)
	for scanner.Scan() {
		runLine(r, scanner.Text())
		if r.Exited {
			break
		}
	}
	return int(r.Env.LastStatus())
}

func runInteractive(r *interp.Runner, cfg *config) int {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          cfg.Prompt,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "minishell: %v\n", err)
		return 1
	}
	defer rl.Close()

	hist := loadHistory(cfg.HistoryFile, cfg.HistorySize)
	for _, line := range hist.lines {
		rl.SaveHistory(line)
	}
	defer hist.save()

	// Heredoc bodies come through the same line editor, with the
	// continuation prompt; ^C there aborts the pipeline.
	r.ReadLine = func(prompt string) (string, error) {
		rl.SetPrompt(prompt)
		defer rl.SetPrompt(cfg.Prompt)
		return rl.Readline()
	}

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			r.Env.SetLastStatus(130)
			continue
		}
		if err != nil {
			if err != io.EOF {
				fmt.Fprintf(os.Stderr, "minishell: %v\n", err)
			}
			fmt.Fprintln(os.Stdout, "exit")
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		hist.add(line)
		rl.SaveHistory(line)
		runLine(r, line)
		if r.Exited {
			break
		}
	}
	return int(r.Env.LastStatus())
}
