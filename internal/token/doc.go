// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package token implements the lexer for the Paradox script grammar: it
// turns a raw byte buffer (UTF-8 or Windows-1252, BOM or not) into a
// stream of Tokens, recovering from malformed input by emitting a
// warning Diagnostic and skipping ahead rather than aborting.
//
// Ground: internal/ast/lexer.go's rune-at-a-time scanning loop with
// explicit line/col bookkeeping; generalised here from the four-way
// {invalid-utf8, eol, spaces, word} classification into the full
// Paradox script token set (braces, operators, quoted strings,
// numbers, and dates).
package token
