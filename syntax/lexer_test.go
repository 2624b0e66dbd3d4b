// Copyright (c) 2024, The minishell authors
// See LICENSE for licensing information

package syntax

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want []Token
	}{
		{
			name: "Empty",
			src:  "",
			want: nil,
		},
		{
			name: "WhitespaceOnly",
			src:  " \t  ",
			want: nil,
		},
		{
			name: "SingleWord",
			src:  "ls",
			want: []Token{
				{Word, "ls", 0},
			},
		},
		{
			name: "WordsAndFlags",
			src:  "  ls -l   -a ",
			want: []Token{
				{Word, "ls", 0},
				{Word, "-l", 1},
				{Word, "-a", 2},
			},
		},
		{
			name: "Pipeline",
			src:  "cat file | wc -c",
			want: []Token{
				{Word, "cat", 0},
				{Word, "file", 1},
				{Pipe, "|", 2},
				{Word, "wc", 3},
				{Word, "-c", 4},
			},
		},
		{
			name: "RedirOperators",
			src:  "<in cmd >out >>log <<eof",
			want: []Token{
				{RdrIn, "<", 0},
				{Word, "in", 1},
				{Word, "cmd", 2},
				{RdrOut, ">", 3},
				{Word, "out", 4},
				{AppOut, ">>", 5},
				{Word, "log", 6},
				{Hdoc, "<<", 7},
				{Word, "eof", 8},
			},
		},
		{
			name: "OperatorsSplitWords",
			src:  "echo hi>out",
			want: []Token{
				{Word, "echo", 0},
				{Word, "hi", 1},
				{RdrOut, ">", 2},
				{Word, "out", 3},
			},
		},
		{
			name: "QuotedPipe",
			src:  `echo "a | b"`,
			want: []Token{
				{Word, "echo", 0},
				{Word, `"a | b"`, 1},
			},
		},
		{
			name: "QuotesKeptInLexeme",
			src:  `echo 'hi there' "you"`,
			want: []Token{
				{Word, "echo", 0},
				{Word, "'hi there'", 1},
				{Word, `"you"`, 2},
			},
		},
		{
			name: "DoubleInsideSingle",
			src:  `echo '"literal"'`,
			want: []Token{
				{Word, "echo", 0},
				{Word, `'"literal"'`, 1},
			},
		},
		{
			name: "QuotedRedirChars",
			src:  `echo "a > b" c`,
			want: []Token{
				{Word, "echo", 0},
				{Word, `"a > b"`, 1},
				{Word, "c", 2},
			},
		},
		{
			name: "AdjacentQuotes",
			src:  `echo 'a'"b"`,
			want: []Token{
				{Word, "echo", 0},
				{Word, `'a'"b"`, 1},
			},
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := Tokenize(tc.src)
			if err != nil {
				t.Fatalf("did not want error, got %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("Tokenize(%q) mismatch (-want +got):\n%s", tc.src, diff)
			}
		})
	}
}

func TestTokenizeUnterminated(t *testing.T) {
	t.Parallel()

	for _, src := range []string{
		`echo "unterminated`,
		`echo 'unterminated`,
		`echo "mixed'`,
		`'`,
	} {
		if _, err := Tokenize(src); err == nil {
			t.Errorf("Tokenize(%q) wanted an error, got none", src)
		}
	}
}

func TestTokenizePositions(t *testing.T) {
	t.Parallel()

	toks, err := Tokenize("a b | c > d")
	if err != nil {
		t.Fatal(err)
	}
	for i, tok := range toks {
		if tok.Position != i {
			t.Fatalf("token %d has position %d", i, tok.Position)
		}
	}
}

func TestTokenizeDeterministic(t *testing.T) {
	t.Parallel()

	const src = `cat <in 'a b' | tr a-z A-Z >>out`
	first, err := Tokenize(src)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Tokenize(src)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("two runs disagree (-first +second):\n%s", diff)
	}
}
