// Copyright (c) 2024, The minishell authors
// See LICENSE for licensing information

package syntax

import (
	"fmt"
	"strings"
)

// RedirKind enumerates the redirections a stage can carry.
type RedirKind uint8

const (
	RedirIn        RedirKind = iota // < target
	RedirOutTrunc                   // > target
	RedirOutAppend                  // >> target
	RedirHdoc                       // << delimiter
)

// Redir is a single redirection, kept in source order. Later
// redirections of the same stream win at execution time, but earlier
// output targets are still created. Quoted records whether the target
// lexeme carried quote characters, which turns off expansion inside a
// heredoc body.
type Redir struct {
	Kind   RedirKind
	Target string
	Quoted bool
}

// Stage is one pipe-delimited segment of a pipeline: the command name,
// its argv with quotes stripped, and its redirections. A stage with
// redirections and no command is valid; Cmd is then empty.
type Stage struct {
	Cmd      string
	Argv     []string
	Redirs   []Redir
	Position int
}

var redirKinds = map[TokenType]RedirKind{
	RdrIn:  RedirIn,
	RdrOut: RedirOutTrunc,
	AppOut: RedirOutAppend,
	Hdoc:   RedirHdoc,
}

// Parse partitions a token list at pipe boundaries into pipeline
// stages. Words become argv entries in order; each redirection
// operator consumes the following word as its target.
func Parse(toks []Token) ([]*Stage, error) {
	if len(toks) == 0 {
		return nil, nil
	}
	stages := []*Stage{{}}
	for i := 0; i < len(toks); i++ {
		st := stages[len(stages)-1]
		switch tok := toks[i]; tok.Type {
		case Word:
			st.Argv = append(st.Argv, Unquote(tok.Lexeme))
		case Pipe:
			if st.empty() {
				return nil, unexpected("|")
			}
			stages = append(stages, &Stage{})
		default:
			if i+1 >= len(toks) {
				return nil, unexpected("newline")
			}
			if target := toks[i+1]; target.Type != Word {
				return nil, unexpected(target.Lexeme)
			}
			i++
			st.Redirs = append(st.Redirs, Redir{
				Kind:   redirKinds[tok.Type],
				Target: Unquote(toks[i].Lexeme),
				Quoted: strings.ContainsAny(toks[i].Lexeme, `'"`),
			})
		}
	}
	if stages[len(stages)-1].empty() {
		return nil, unexpected("newline")
	}
	for i, st := range stages {
		st.Position = i
		if len(st.Argv) > 0 {
			st.Cmd = st.Argv[0]
		}
	}
	return stages, nil
}

func (st *Stage) empty() bool {
	return len(st.Argv) == 0 && len(st.Redirs) == 0
}

func unexpected(tok string) *ParseError {
	return &ParseError{Text: fmt.Sprintf("syntax error near unexpected token `%s'", tok)}
}

// Unquote removes the quoting characters from a word, leaving quoted
// spans intact: a double quote inside single quotes stays literal, and
// vice versa.
func Unquote(s string) string {
	if !strings.ContainsAny(s, `'"`) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	var quotes QuoteState
	for i := 0; i < len(s); i++ {
		if quotes.Step(s[i]) {
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}
