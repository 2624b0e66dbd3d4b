// Copyright (c) 2024, The minishell authors
// See LICENSE for licensing information

package expand

import (
	"strconv"

	"github.com/alx-sch/minishell/syntax"
)

// Words expands shell variables inside each word token, in place.
// Operator tokens are left alone. inSingle allows expansion inside
// single quotes, which heredoc bodies use.
func Words(env *Environ, toks []syntax.Token, inSingle bool) {
	for i := range toks {
		if toks[i].Type != syntax.Word {
			continue
		}
		toks[i].Lexeme = Literal(env, toks[i].Lexeme, inSingle)
	}
}

// Literal expands the variables of a single lexeme, returning the new
// text. Quote characters are kept in place; the parser strips them
// later. `$?` becomes the decimal last exit status, `$NAME` the
// variable's value or the empty string. After a substitution the scan
// stays at the start of the substituted text, so values containing
// further `$NAME` references expand again.
func Literal(env *Environ, s string, inSingle bool) string {
	var quotes syntax.QuoteState
	subs := 0
	for i := 0; i < len(s); {
		if quotes.Step(s[i]) {
			i++
			continue
		}
		if s[i] != '$' || (quotes.Single && !inSingle) {
			i++
			continue
		}
		name := varName(s[i+1:])
		if name == "" {
			i++
			continue
		}
		var value string
		if name == "?" {
			value = strconv.Itoa(int(env.LastStatus()))
		} else {
			value, _ = env.Get(name)
		}
		s = s[:i] + value + s[i+1+len(name):]
		if subs++; subs >= maxExpandDepth {
			i += len(value)
		}
	}
	return s
}

// maxExpandDepth bounds how many substitutions a single lexeme may
// re-expand. Otherwise a variable holding a reference to itself would
// keep the scan in place forever.
const maxExpandDepth = 100

// varName extracts the variable name following a dollar sign: "?" or a
// run of alphanumerics. An empty result means the dollar is literal.
func varName(s string) string {
	if s != "" && s[0] == '?' {
		return "?"
	}
	n := 0
	for n < len(s) && alnum(s[n]) {
		n++
	}
	return s[:n]
}

func alnum(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
