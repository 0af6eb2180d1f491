// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package token_test

import (
	"testing"

	"github.com/pdxcore/atlas/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	var ks []token.Kind
	for _, t := range toks {
		ks = append(ks, t.Kind)
	}
	return ks
}

func TestBasicTokens(t *testing.T) {
	src := `owner = FRA base_tax=3.5 1444.1.1 { add_core = "FRA" }`
	toks, diags, err := token.Lex([]byte(src), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	want := []token.Kind{
		token.Identifier, token.Operator, token.Identifier,
		token.Identifier, token.Operator, token.Float,
		token.Date, token.LBrace,
		token.Identifier, token.Operator, token.QuotedString,
		token.RBrace, token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("token count mismatch: got %d want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s want %s", i, got[i], want[i])
		}
	}
}

func TestOperatorLongestMatch(t *testing.T) {
	cases := []struct {
		src  string
		want token.OpKind
	}{
		{"=", token.Assign},
		{"==", token.Eq},
		{"!=", token.NotEq},
		{"<", token.Lt},
		{"<=", token.LtEq},
		{">", token.Gt},
		{">=", token.GtEq},
	}
	for _, c := range cases {
		toks, _, err := token.Lex([]byte(c.src), "")
		if err != nil {
			t.Fatalf("%s: %v", c.src, err)
		}
		if toks[0].Kind != token.Operator || toks[0].Op != c.want {
			t.Errorf("%s: got %v/%v want Operator/%v", c.src, toks[0].Kind, toks[0].Op, c.want)
		}
	}
}

func TestQuotedStringEscapes(t *testing.T) {
	src := `"line one\nline \"two\" and \\backslash"`
	toks, diags, err := token.Lex([]byte(src), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	want := "line one\nline \"two\" and \\backslash"
	if toks[0].Text != want {
		t.Errorf("got %q want %q", toks[0].Text, want)
	}
}

func TestUnterminatedQuotedStringIsWarningNotAbort(t *testing.T) {
	src := "\"no closing quote\nidentifier_after"
	toks, diags, err := token.Lex([]byte(src), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(diags) == 0 {
		t.Fatalf("expected a diagnostic for the unterminated string")
	}
	if toks[len(toks)-2].Kind != token.Identifier || toks[len(toks)-2].Text != "identifier_after" {
		t.Errorf("lexer should keep scanning after an unterminated string, got %+v", toks)
	}
}

func TestDateVsFloatVsInteger(t *testing.T) {
	toks, _, err := token.Lex([]byte("1444.1.1 3.5 42 -7 -1.2.3"), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantKinds := []token.Kind{token.Date, token.Float, token.Integer, token.Integer, token.Date, token.EOF}
	got := kinds(toks)
	for i := range wantKinds {
		if got[i] != wantKinds[i] {
			t.Errorf("token %d: got %s want %s", i, got[i], wantKinds[i])
		}
	}
	if toks[0].Date != (token.DateValue{Year: 1444, Month: 1, Day: 1}) {
		t.Errorf("bad date parse: %+v", toks[0].Date)
	}
	if toks[4].Date != (token.DateValue{Year: -1, Month: 2, Day: 3}) {
		t.Errorf("bad negative date parse: %+v", toks[4].Date)
	}
}

func TestCommentsAreDropped(t *testing.T) {
	src := "owner = FRA # this is a comment\nculture = french"
	toks, _, err := token.Lex([]byte(src), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, tk := range toks {
		if tk.Kind == token.Identifier && (tk.Text == "this" || tk.Text == "comment") {
			t.Fatalf("comment text leaked into token stream: %+v", tk)
		}
	}
}

func TestLexerIdempotence(t *testing.T) {
	src := `owner = FRA
base_tax = 3.5
1444.1.1 = { add_core = "FRA" join_league = yes }`
	toks1, _, err := token.Lex([]byte(src), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rendered := token.Render(toks1)
	toks2, _, err := token.Lex(rendered, "")
	if err != nil {
		t.Fatalf("unexpected error on re-lex: %v", err)
	}
	if len(toks1) != len(toks2) {
		t.Fatalf("token count changed after render/re-lex: %d vs %d", len(toks1), len(toks2))
	}
	for i := range toks1 {
		a, b := toks1[i], toks2[i]
		if a.Kind != b.Kind {
			t.Fatalf("token %d kind changed: %s vs %s", i, a.Kind, b.Kind)
		}
		if a.String() != b.String() {
			t.Fatalf("token %d rendering changed: %q vs %q", i, a.String(), b.String())
		}
	}
}

func TestWindows1252Decoding(t *testing.T) {
	// 0xE9 is 'é' in Windows-1252 but invalid as a lone UTF-8 continuation byte,
	// so the buffer is not valid UTF-8 and must fall back to Windows-1252.
	src := []byte{'"', 0xE9, '"'}
	toks, _, err := token.Lex(src, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Kind != token.QuotedString || toks[0].Text != "é" {
		t.Errorf("expected decoded é, got %q (%s)", toks[0].Text, toks[0].Kind)
	}
}
