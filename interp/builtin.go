// Copyright (c) 2024, The minishell authors
// See LICENSE for licensing information

package interp

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/alx-sch/minishell/expand"
)

// IsBuiltin reports whether the shell handles name itself instead of
// searching PATH for it.
func IsBuiltin(name string) bool {
	switch name {
	case "echo", "pwd", "env", "cd", "export", "unset", "exit":
		return true
	}
	return false
}

// isParentBuiltin reports whether a builtin mutates shell state and
// therefore must run in the shell process when it is the whole
// pipeline.
func isParentBuiltin(name string) bool {
	switch name {
	case "cd", "export", "unset", "exit":
		return true
	}
	return false
}

// builtin dispatches one builtin invocation. parent is false when the
// builtin was forced into a pipeline stage: it then runs against a
// clone of the environment and leaves the shell process alone, which
// is all a forked child could have done.
func (r *Runner) builtin(argv []string, stdout io.Writer, parent bool) uint8 {
	env := r.Env
	if !parent && isParentBuiltin(argv[0]) {
		env = env.Clone()
	}
	args := argv[1:]
	switch argv[0] {
	case "echo":
		return r.echo(stdout, args)
	case "pwd":
		return r.pwd(env, stdout)
	case "env":
		return r.env(env, stdout, args)
	case "cd":
		return r.cd(env, stdout, args, parent)
	case "export":
		return r.export(env, stdout, args)
	case "unset":
		return r.unset(env, args)
	case "exit":
		return r.exit(env, stdout, args, parent)
	}
	return 0
}

func (r *Runner) echo(stdout io.Writer, args []string) uint8 {
	newline := true
	for len(args) > 0 && args[0] == "-n" {
		newline = false
		args = args[1:]
	}
	io.WriteString(stdout, strings.Join(args, " "))
	if newline {
		io.WriteString(stdout, "\n")
	}
	return 0
}

func (r *Runner) pwd(env *expand.Environ, stdout io.Writer) uint8 {
	wd, err := os.Getwd()
	if err != nil {
		// A removed working directory still has a PWD entry.
		var ok bool
		if wd, ok = env.Get("PWD"); !ok {
			r.errf("pwd: %s\n", errText(err))
			return 1
		}
	}
	fmt.Fprintln(stdout, wd)
	return 0
}

func (r *Runner) env(env *expand.Environ, stdout io.Writer, args []string) uint8 {
	if len(args) > 0 {
		r.errf("env: %s: No such file or directory\n", args[0])
		return 127
	}
	for _, pair := range env.Environ() {
		fmt.Fprintln(stdout, pair)
	}
	return 0
}

func (r *Runner) cd(env *expand.Environ, stdout io.Writer, args []string, parent bool) uint8 {
	var path string
	switch len(args) {
	case 0:
		var ok bool
		if path, ok = env.Get("HOME"); !ok {
			r.errf("cd: HOME not set\n")
			return 1
		}
	case 1:
		path = args[0]
		if path == "-" {
			var ok bool
			if path, ok = env.Get("OLDPWD"); !ok {
				r.errf("cd: OLDPWD not set\n")
				return 1
			}
			fmt.Fprintln(stdout, path)
		}
	default:
		r.errf("cd: too many arguments\n")
		return 2
	}
	if !parent {
		// A forked cd cannot move the parent shell; report what the
		// chdir would have said and leave it at that.
		info, err := os.Stat(path)
		switch {
		case err != nil:
			r.errf("cd: %s: %s\n", path, errText(err))
			return 1
		case !info.IsDir():
			r.errf("cd: %s: Not a directory\n", path)
			return 1
		}
		return 0
	}
	oldpwd, _ := os.Getwd()
	if err := os.Chdir(path); err != nil {
		r.errf("cd: %s: %s\n", path, errText(err))
		return 1
	}
	env.Set("OLDPWD", oldpwd)
	if wd, err := os.Getwd(); err == nil {
		env.Set("PWD", wd)
	}
	return 0
}

func (r *Runner) export(env *expand.Environ, stdout io.Writer, args []string) uint8 {
	if len(args) == 0 {
		for _, name := range env.Sorted() {
			if value, ok := env.Get(name); ok {
				fmt.Fprintf(stdout, "declare -x %s=%s\n", name, quoteValue(value))
			} else {
				fmt.Fprintf(stdout, "declare -x %s\n", name)
			}
		}
		return 0
	}
	var code uint8
	for _, arg := range args {
		name, value, hasValue := strings.Cut(arg, "=")
		if !validName(name) {
			r.errf("export: `%s': not a valid identifier\n", arg)
			code = 1
			continue
		}
		if hasValue {
			env.Set(name, value)
		} else {
			env.Declare(name)
		}
	}
	return code
}

func (r *Runner) unset(env *expand.Environ, args []string) uint8 {
	if len(args) > 0 && strings.HasPrefix(args[0], "-") {
		r.errf("unset: %s: invalid option\n", args[0])
		return 2
	}
	for _, name := range args {
		env.Unset(name)
	}
	return 0
}

func (r *Runner) exit(env *expand.Environ, stdout io.Writer, args []string, parent bool) uint8 {
	if parent {
		fmt.Fprintln(stdout, "exit")
	}
	code := env.LastStatus()
	switch len(args) {
	case 0:
	case 1:
		n, err := strconv.Atoi(args[0])
		if err != nil {
			r.errf("exit: %s: numeric argument required\n", args[0])
			code = 2
		} else {
			code = uint8(n)
		}
	default:
		// Too many arguments does not exit the shell.
		r.errf("exit: too many arguments\n")
		return 1
	}
	if parent {
		r.Exited = true
	}
	return code
}

// quoteValue renders a value for the export listing, quoting only
// when the value needs it.
func quoteValue(value string) string {
	return shellquote.Join(value)
}

// validName reports whether name is a valid shell identifier: a
// letter or underscore followed by letters, digits or underscores.
func validName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		b := name[i]
		switch {
		case b == '_' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z':
		case b >= '0' && b <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
