// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package script

import (
	"fmt"
	"strings"

	"github.com/pdxcore/atlas/cerrs"
	"github.com/pdxcore/atlas/internal/token"
)

// Diagnostic reuses the lexer's severity/position/message shape so callers
// can merge lexer and parser diagnostics into one ordered list.
type Diagnostic = token.Diagnostic

// DefaultMaxIncludeDepth is the default ceiling on nested @include chains
// (spec §4.2: "maximum depth is 32; deeper inclusion fails").
const DefaultMaxIncludeDepth = 32

// Options configures Parse.
type Options struct {
	EncodingHint    string
	Resolver        Resolver
	MaxIncludeDepth int
}

// Parse lexes and parses src into a single root Node, per the grammar in
// spec §4.2. Diagnostics accumulate rather than abort the parse, except
// for a handful of structural failures (bad source encoding, an include
// cycle, or an include chain past MaxIncludeDepth) which are returned as
// errors because there is no sane tree to hand back.
func Parse(src []byte, opts Options) (*Node, []Diagnostic, error) {
	if opts.MaxIncludeDepth <= 0 {
		opts.MaxIncludeDepth = DefaultMaxIncludeDepth
	}
	toks, lexDiags, err := token.Lex(src, opts.EncodingHint)
	if err != nil {
		return nil, nil, err
	}
	p := &Parser{
		toks:     toks,
		consts:   map[string]*Node{},
		resolver: opts.Resolver,
		maxDepth: opts.MaxIncludeDepth,
		diags:    append([]Diagnostic(nil), lexDiags...),
	}
	return p.parseRoot()
}

// Parser is a recursive-descent parser over a token.Token stream. Nested
// @include directives are handled by temporarily swapping in the included
// file's token stream (see resolveInclude); includeStack records the
// paths currently being parsed, for the cycle and depth checks.
type Parser struct {
	toks []token.Token
	pos  int

	consts map[string]*Node

	resolver     Resolver
	includeStack []string
	maxDepth     int

	diags           []Diagnostic
	eofErrorEmitted bool
}

func (p *Parser) Diagnostics() []Diagnostic { return p.diags }

func (p *Parser) warn(pos token.Pos, msg string) {
	p.diags = append(p.diags, Diagnostic{Severity: token.SeverityWarning, Pos: pos, Message: msg})
}

func (p *Parser) errorf(pos token.Pos, msg string) {
	p.diags = append(p.diags, Diagnostic{Severity: token.SeverityError, Pos: pos, Message: msg})
}

func (p *Parser) peek() token.Token  { return p.peekAt(0) }
func (p *Parser) peekAt(n int) token.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[i]
}
func (p *Parser) advance() token.Token {
	t := p.peek()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) parseRoot() (*Node, []Diagnostic, error) {
	entries, err := p.parseEntries(token.EOF)
	if err != nil {
		return nil, p.diags, err
	}
	root := p.buildContainer("", token.Pos{Line: 1, Col: 1, Offset: 0}, entries)
	return root, p.diags, nil
}

// entryRec is one parsed-but-not-yet-merged entry: either a bare value
// (list item) or a keyed one (object child). Keeping these separate from
// a half-built container lets @include splice entries from another file
// in before the final List/Object/mixed decision is made, so duplicate
// promotion sees base-file and included entries uniformly.
type entryRec struct {
	bare  bool
	key   string
	value *Node
}

// parseEntries consumes entries until it sees terminator (RBrace for a
// nested block, EOF for a whole file), per spec §4.2's failure policy:
// an unmatched RBrace at top level is a warning and is skipped; EOF
// reached while still inside a block is a single Error, not an abort.
func (p *Parser) parseEntries(terminator token.Kind) ([]entryRec, error) {
	var entries []entryRec
	for {
		t := p.peek()
		switch {
		case t.Kind == token.EOF:
			if terminator == token.RBrace && !p.eofErrorEmitted {
				p.errorf(t.Pos, "unexpected end of file inside block")
				p.eofErrorEmitted = true
			}
			return entries, nil

		case t.Kind == token.RBrace:
			if terminator == token.RBrace {
				p.advance()
				return entries, nil
			}
			p.warn(t.Pos, "unexpected '}' at top level, ignoring")
			p.advance()
			continue

		case t.Kind == token.Identifier && t.Text == "@include":
			p.advance()
			pathTok := p.peek()
			if pathTok.Kind != token.QuotedString {
				p.warn(pathTok.Pos, "@include expects a quoted path")
				continue
			}
			p.advance()
			sub, err := p.resolveInclude(pathTok.Text, pathTok.Pos)
			if err != nil {
				return entries, err
			}
			entries = append(entries, sub...)
			continue

		default:
			entry, err := p.parseOneEntry()
			if err != nil {
				return entries, err
			}
			if entry != nil {
				entries = append(entries, *entry)
			}
		}
	}
}

func isKeyKind(k token.Kind) bool {
	switch k {
	case token.Identifier, token.QuotedString, token.Integer, token.Float, token.Date:
		return true
	}
	return false
}

func keyTokenText(t token.Token) string {
	switch t.Kind {
	case token.Identifier, token.QuotedString:
		return t.Text
	case token.Integer:
		return fmt.Sprintf("%d", t.Int)
	case token.Float:
		return fmt.Sprintf("%g", t.Float)
	case token.Date:
		return t.Date.String()
	default:
		return ""
	}
}

// parseOneEntry parses either "Key Operator Value" or a bare "Value",
// per spec §4.2. It returns (nil, nil) for entries that produce no tree
// node: a @const definition, or an operator with no right-hand value
// (dropped, per spec, with a warning).
func (p *Parser) parseOneEntry() (*entryRec, error) {
	t0 := p.peek()
	t1 := p.peekAt(1)

	if isKeyKind(t0.Kind) && t1.Kind == token.Operator {
		p.advance() // key
		p.advance() // operator
		nt := p.peek()
		if nt.Kind == token.RBrace || nt.Kind == token.EOF {
			p.warn(t0.Pos, "operator without a value, entry dropped")
			return nil, nil
		}
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}

		keyText := keyTokenText(t0)
		if t0.Kind == token.Identifier && strings.HasPrefix(keyText, "@") {
			p.consts[keyText[1:]] = value
			return nil, nil
		}

		if t0.Kind == token.Date {
			if value.Kind == Object {
				value.Kind = DateKind
				value.Date = t0.Date
			} else {
				p.warn(t0.Pos, "date-keyed entry's value is not a block")
			}
			value.Key = t0.Date.String()
			return &entryRec{key: value.Key, value: value}, nil
		}

		return &entryRec{key: keyText, value: value}, nil
	}

	// Bare value entry (list item).
	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	return &entryRec{bare: true, value: value}, nil
}

// parseValue parses a single Scalar or Block value starting at the
// current token, per spec §4.2/§6.
func (p *Parser) parseValue() (*Node, error) {
	t := p.peek()
	switch t.Kind {
	case token.LBrace:
		p.advance()
		entries, err := p.parseEntries(token.RBrace)
		if err != nil {
			return nil, err
		}
		return p.buildContainer("", t.Pos, entries), nil

	case token.QuotedString:
		p.advance()
		return NewScalar("", t.Pos, Value{Type: StringValue, Str: t.Text}), nil

	case token.Integer:
		p.advance()
		return NewScalar("", t.Pos, Value{Type: IntegerValue, Int: t.Int}), nil

	case token.Float:
		p.advance()
		return NewScalar("", t.Pos, Value{Type: FloatValue, Float: t.Float}), nil

	case token.Date:
		p.advance()
		return NewScalar("", t.Pos, Value{Type: DateValue, Date: t.Date}), nil

	case token.Identifier:
		p.advance()
		if strings.HasPrefix(t.Text, "@") {
			if v, ok := p.consts[t.Text[1:]]; ok {
				return cloneNode(v), nil
			}
			p.warn(t.Pos, "undefined constant "+t.Text)
			return NewScalar("", t.Pos, Value{Type: StringValue, Str: t.Text}), nil
		}
		switch strings.ToLower(t.Text) {
		case "yes", "true":
			return NewScalar("", t.Pos, Value{Type: BoolValue, Bool: true}), nil
		case "no", "false":
			return NewScalar("", t.Pos, Value{Type: BoolValue, Bool: false}), nil
		}
		return NewScalar("", t.Pos, Value{Type: StringValue, Str: t.Text}), nil

	default:
		p.warn(t.Pos, "expected a value")
		return NewScalar("", t.Pos, Value{Type: StringValue, Str: ""}), nil
	}
}

// cloneNode returns a shallow-enough copy so a constant expanded at two
// different use sites doesn't alias the same Node (and so a later
// addChild call mutating .Key at one use site can't corrupt the other).
func cloneNode(n *Node) *Node {
	if n == nil {
		return nil
	}
	cp := *n
	if n.Children != nil {
		cp.Children = make(map[string]*Node, len(n.Children))
		for k, v := range n.Children {
			cp.Children[k] = cloneNode(v)
		}
		cp.order = append([]string(nil), n.order...)
	}
	if n.Items != nil {
		cp.Items = make([]*Node, len(n.Items))
		for i, v := range n.Items {
			cp.Items[i] = cloneNode(v)
		}
	}
	return &cp
}

// buildContainer decides the shape of a completed scope's entries, per
// spec §3: all-bare becomes a List, all-keyed becomes an Object (applying
// duplicate-key promotion in order), and a mix becomes an Object with the
// bare values collected under a synthesized empty-key List child, with a
// warning.
func (p *Parser) buildContainer(key string, pos token.Pos, entries []entryRec) *Node {
	if len(entries) == 0 {
		return NewObject(key, pos)
	}
	bareCount, keyedCount := 0, 0
	for _, e := range entries {
		if e.bare {
			bareCount++
		} else {
			keyedCount++
		}
	}

	if keyedCount == 0 {
		list := NewList(key, pos)
		for _, e := range entries {
			e.value.Key = ""
			list.Items = append(list.Items, e.value)
		}
		return list
	}

	obj := NewObject(key, pos)
	if bareCount == 0 {
		for _, e := range entries {
			obj.addChild(e.key, e.value)
		}
		return obj
	}

	var bareItems []*Node
	for _, e := range entries {
		if e.bare {
			e.value.Key = ""
			bareItems = append(bareItems, e.value)
		} else {
			obj.addChild(e.key, e.value)
		}
	}
	p.warn(pos, "mixed block: bare values collected under a synthesized empty key")
	obj.addChild("", &Node{Kind: List, Pos: pos, Items: bareItems})
	return obj
}

// resolveInclude resolves and parses path's content, returning its
// top-level entries so the caller can splice them into its own scope.
// Cycle and depth-limit failures are hard errors: the spec calls for
// "a hard error naming the cycle", and there's no reasonable partial
// tree to return for a runaway include chain.
func (p *Parser) resolveInclude(path string, pos token.Pos) ([]entryRec, error) {
	for _, active := range p.includeStack {
		if active == path {
			chain := append(append([]string(nil), p.includeStack...), path)
			return nil, fmt.Errorf("%w: %s", cerrs.ErrIncludeCycle, strings.Join(chain, " -> "))
		}
	}
	if len(p.includeStack)+1 > p.maxDepth {
		return nil, fmt.Errorf("%w: %s (depth %d)", cerrs.ErrIncludeTooDeep, path, len(p.includeStack)+1)
	}
	if p.resolver == nil {
		p.warn(pos, "no include resolver configured, skipping @include \""+path+"\"")
		return nil, nil
	}
	data, err := p.resolver.Resolve(path)
	if err != nil {
		p.warn(pos, "include not found: "+path)
		return nil, nil
	}

	subToks, subDiags, err := token.Lex(data, "")
	if err != nil {
		return nil, err
	}
	p.diags = append(p.diags, subDiags...)

	savedToks, savedPos := p.toks, p.pos
	p.toks, p.pos = subToks, 0
	p.includeStack = append(p.includeStack, path)

	entries, err := p.parseEntries(token.EOF)

	p.includeStack = p.includeStack[:len(p.includeStack)-1]
	p.toks, p.pos = savedToks, savedPos

	return entries, err
}
