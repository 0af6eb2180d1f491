// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package script implements the structural parser for the Paradox script
// grammar (spec §4.2): it turns a token.Lexer's stream into a generic
// Node tree of Scalar, Object, List, and Date variants, handling
// duplicate-key promotion to List, @const definitions, and @include
// splicing with cycle and depth detection.
//
// Ground: internal/parser/nodes.go's duplicate-key-and-promotion
// handling (there done ad hoc over a flat comma-separated node list;
// here done once, uniformly, in the parser itself, per spec §9's
// design note that this is "the single subtlest behaviour").
package script
