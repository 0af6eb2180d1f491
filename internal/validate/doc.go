// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package validate implements the structural and cross-reference
// validator (C9): a pass over a sealed model.Store that emits Issues
// with Error/Warning/Info severities rather than failing the load, per
// spec §4.9. The validator runs only after extraction and mod-overlay
// composition have produced a complete store.
//
// Ground: internal/parser's per-field validation switches (the same
// style extract uses to build domain values) adapted here to check
// values already built, plus internal/results' severity-tagged report
// style for the Issue type itself.
package validate
