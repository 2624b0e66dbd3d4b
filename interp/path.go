// Copyright (c) 2024, The minishell authors
// See LICENSE for licensing information

package interp

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// lookPath resolves a command name the way execvp would: a name with
// a slash is used as given after an executability check, anything else
// is searched along PATH, first match by access(X_OK) winning. An
// empty or missing PATH leaves only the name itself to try. The
// returned status is 0 on success, with the error already reported
// otherwise: 127 when nothing was found, 126 when the match cannot be
// executed.
func (r *Runner) lookPath(name string) (string, uint8) {
	if strings.ContainsRune(name, '/') {
		return r.checkExec(name)
	}
	path, _ := r.Env.Get("PATH")
	if path == "" {
		return r.checkExec(name)
	}
	for _, dir := range strings.Split(path, ":") {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, name)
		if unix.Access(candidate, unix.X_OK) == nil {
			return candidate, 0
		}
	}
	r.errf("%s: command not found\n", name)
	return "", 127
}

// checkExec vets a path used verbatim as a command.
func (r *Runner) checkExec(path string) (string, uint8) {
	info, err := os.Stat(path)
	switch {
	case err != nil:
		r.errf("%s: %s\n", path, errText(err))
		return "", 127
	case info.IsDir():
		r.errf("%s: Is a directory\n", path)
		return "", 126
	case unix.Access(path, unix.X_OK) != nil:
		r.errf("%s: Permission denied\n", path)
		return "", 126
	}
	return path, 0
}
